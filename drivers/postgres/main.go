package main

import (
	"github.com/datazip-inc/sparkify"
	driver "github.com/datazip-inc/sparkify/drivers/postgres/internal"
)

func main() {
	driver := &driver.Postgres{}
	defer driver.Close()
	sparkify.RegisterDriver(driver)
}
