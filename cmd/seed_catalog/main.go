// seed_catalog genera un script SQL idempotente para poblar categorías y productos
// a partir de una exportación XML del catálogo (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml] [ruta/salida.sql]
// Por defecto lee catalogo.xml del directorio actual y
// escribe internal/infrastructure/postgres/migrations/002_seed_catalog.sql.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, skipped, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "Omitido: %s\n", s)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeed(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d productos\n", outPath, len(cat.Categories), cat.productCount())
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
