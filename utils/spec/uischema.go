// uischema is used to serve the UI specifications of the config of all the drivers
package spec

import (
	"fmt"
)

var uiSchemaMap = map[string]string{
	"postgres": PostgresUISchema,
	"redshift": RedshiftUISchema,
}

const PostgresUISchema = `{
      "ui:grid": [
        { "host": 12, "database": 12 },
        { "username": 12, "password": 12 },
        { "port": 12, "jdbc_url_params": 12 },
        { "song_data": 12, "log_data": 12 },
        { "ssl": 12, "error_policy": 12 },
        { "ssh_config": 12 }
      ],
      "ssl": {
        "ui:options": {
          "title": false
        }
      },
      "error_policy": {
        "ui:widget": "radio"
      },
      "ssh_config": {
        "ui:options": {
          "title": false,
          "description": false
        },
        "ui:grid": [
          { "host": 12, "port": 12 },
          { "username": 12, "private_key": 12 },
          { "passphrase": 12, "password": 12 }
        ],
        "private_key": {
          "ui:widget": "textarea",
          "ui:options": {
            "rows": 1
          }
        }
      }
    }`

const RedshiftUISchema = `{
      "ui:grid": [
        { "cluster": 12 },
        { "iam_role": 12 },
        { "s3": 12 },
        { "aws": 12 }
      ],
      "cluster": {
        "ui:grid": [
          { "host": 12, "db_port": 12 },
          { "db_name": 12, "ssl_mode": 12 },
          { "db_user": 12, "db_password": 12 }
        ],
        "db_password": {
          "ui:widget": "password"
        }
      },
      "s3": {
        "ui:grid": [
          { "log_data": 12, "log_jsonpath": 12 },
          { "song_data": 12, "region": 12 },
          { "endpoint": 12 }
        ]
      },
      "aws": {
        "ui:options": {
          "description": false
        },
        "secret": {
          "ui:widget": "password"
        }
      }
    }`

func LoadUISchema(schemaType string) (string, error) {
	jsonStr, ok := uiSchemaMap[schemaType]
	if !ok {
		return "", fmt.Errorf("schema not found")
	}
	return jsonStr, nil
}
