// migrations встраивает SQL-миграции схемы в бинарник,
// чтобы goose мог применять их без доступа к файловой системе.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
