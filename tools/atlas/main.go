//go:generate go run ./main.go -dialect sqlite -output ../../schema.sqlite.sql
//go:generate go run ./main.go -dialect postgres -output ../../schema.postgres.sql

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ariga.io/atlas-provider-gorm/gormschema"

	"dealership/models"
)

func errExit(format string, args ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// 以 gorm 模型產生 atlas 可讀取的 DDL，用於比對 inventory.EnsureSchema 建立的資料表
func main() {
	dialect := flag.String("dialect", "sqlite", "sqlite or postgres")
	outputPath := flag.String("output", "", "write to file instead of stdout")
	flag.Parse()

	switch *dialect {
	case "sqlite", "postgres":
	default:
		errExit("unsupported dialect: %s", *dialect)
	}

	stmts, err := gormschema.New(*dialect).Load(
		&models.User{},
		&models.Seller{},
		&models.Car{},
		&models.CarImage{},
	)
	if err != nil {
		errExit("error loading gorm schema: %s", err)
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(stmts), 0o644); err != nil {
			errExit("error writing schema to file: %s", err)
		}
	} else {
		fmt.Print(stmts)
	}
}
