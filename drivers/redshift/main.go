package main

import (
	"github.com/datazip-inc/sparkify"
	driver "github.com/datazip-inc/sparkify/drivers/redshift/internal"
)

func main() {
	driver := &driver.Redshift{}
	defer driver.Close()
	sparkify.RegisterDriver(driver)
}
