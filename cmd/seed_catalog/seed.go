package main

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/inventory"
)

type catalogoXML struct {
	Categorias []struct {
		Nombre      string `xml:"nombre,attr"`
		Descripcion string `xml:"descripcion,attr"`
		Productos   []struct {
			Nombre      string `xml:"nombre,attr"`
			Descripcion string `xml:"descripcion,attr"`
			Precio      string `xml:"precio,attr"`
			Costo       string `xml:"costo,attr"`
			Stock       string `xml:"stock,attr"`
			Estado      string `xml:"estado,attr"`
		} `xml:"producto"`
	} `xml:"categoria"`
}

// seedCategory categoría con sus productos ya normalizados.
type seedCategory struct {
	Name        string
	Description string
	Products    []entity.Product
}

type seedCatalog struct {
	Categories []seedCategory
}

func (c seedCatalog) productCount() int {
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Products)
	}
	return n
}

// parseCatalog decodifica el XML y normaliza cada producto como en la creación
// (estado por defecto, stock 0 => OUT_OF_STOCK). Devuelve también los registros omitidos.
func parseCatalog(r io.Reader) (seedCatalog, []string, error) {
	var doc catalogoXML
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&doc); err != nil {
		return seedCatalog{}, nil, err
	}

	var (
		out     seedCatalog
		skipped []string
		seen    = make(map[string]int)
	)
	for _, c := range doc.Categorias {
		name := strings.TrimSpace(c.Nombre)
		if name == "" {
			skipped = append(skipped, "categoría sin nombre")
			continue
		}
		idx, ok := seen[name]
		if !ok {
			out.Categories = append(out.Categories, seedCategory{Name: name, Description: strings.TrimSpace(c.Descripcion)})
			idx = len(out.Categories) - 1
			seen[name] = idx
		}
		for _, p := range c.Productos {
			prod, err := buildProduct(p.Nombre, p.Descripcion, p.Precio, p.Costo, p.Stock, p.Estado)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s/%s: %v", name, strings.TrimSpace(p.Nombre), err))
				continue
			}
			out.Categories[idx].Products = append(out.Categories[idx].Products, prod)
		}
	}
	return out, skipped, nil
}

func buildProduct(name, description, price, cost, stock, state string) (entity.Product, error) {
	p := entity.Product{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		State:       entity.ProductState(strings.ToUpper(strings.TrimSpace(state))),
	}
	if p.Name == "" {
		return p, fmt.Errorf("nombre vacío")
	}
	salePrice, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil || salePrice.IsNegative() || !salePrice.LessThan(inventory.MaxAmount) {
		return p, fmt.Errorf("precio inválido %q", price)
	}
	p.SalePrice = salePrice.Round(inventory.PriceScale)
	if c := strings.TrimSpace(cost); c != "" {
		purchaseCost, err := decimal.NewFromString(c)
		if err != nil || !purchaseCost.IsPositive() || !purchaseCost.LessThan(inventory.MaxAmount) {
			return p, fmt.Errorf("costo inválido %q", cost)
		}
		p.PurchaseCost = decimal.NewNullDecimal(purchaseCost.Round(inventory.PriceScale))
	}
	if s := strings.TrimSpace(stock); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, fmt.Errorf("stock inválido %q", stock)
		}
		p.Stock = n
	}
	inventory.NormalizeOnCreate(&p)
	if !p.State.Valid() {
		return p, fmt.Errorf("estado inválido %q", state)
	}
	return p, nil
}

// writeSeed escribe el SQL. Categorías por nombre único (upsert) y productos solo si no existe
// uno con el mismo nombre en la categoría, de modo que el script puede ejecutarse varias veces.
func writeSeed(w io.Writer, cat seedCatalog) error {
	out := bufio.NewWriter(w)
	out.WriteString("-- Catálogo inicial: categorías y productos\n")
	out.WriteString("-- Generado por cmd/seed_catalog\n\n")

	if len(cat.Categories) > 0 {
		out.WriteString("-- 1. Categorías\n")
		out.WriteString("INSERT INTO categories (name, description) VALUES\n")
		for i, c := range cat.Categories {
			sep := ","
			if i == len(cat.Categories)-1 {
				sep = ""
			}
			fmt.Fprintf(out, "  ('%s', '%s')%s\n", escapeSQL(c.Name), escapeSQL(c.Description), sep)
		}
		out.WriteString("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;\n\n")
	}

	out.WriteString("-- 2. Productos\n")
	for _, c := range cat.Categories {
		for _, p := range c.Products {
			cost := "NULL"
			if p.PurchaseCost.Valid {
				cost = p.PurchaseCost.Decimal.StringFixed(inventory.PriceScale)
			}
			fmt.Fprintf(out, "INSERT INTO products (name, description, sale_price, purchase_cost, stock, state, category_id)\n")
			fmt.Fprintf(out, "SELECT '%s', '%s', %s, %s, %d, '%s', c.id FROM categories c\n",
				escapeSQL(p.Name), escapeSQL(p.Description), p.SalePrice.StringFixed(inventory.PriceScale), cost, p.Stock, p.State)
			fmt.Fprintf(out, "WHERE c.name = '%s' AND NOT EXISTS (SELECT 1 FROM products p WHERE p.name = '%s' AND p.category_id = c.id);\n",
				escapeSQL(c.Name), escapeSQL(p.Name))
		}
	}
	return out.Flush()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
