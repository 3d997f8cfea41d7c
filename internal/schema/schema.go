package schema

import (
	"fmt"
	"strings"
)

// Table names of the seeded schema.
const (
	Products       = "products"
	Customers      = "customers"
	Refunds        = "refunds"
	OrderLineItems = "order_line_items"
)

// TableTemplate defines a table's schema for DDL generation.
type TableTemplate struct {
	Name        string
	Columns     []ColumnDef
	Indexes     []IndexDef
	ForeignKeys []FKDef
}

// ColumnDef defines a single column.
type ColumnDef struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	Unique   bool
}

// IndexDef defines an index.
type IndexDef struct {
	Name    string
	Columns []string
	Unique  bool
}

// FKDef defines a foreign key reference.
type FKDef struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

// Tables returns the four shop tables in creation order.
func Tables() []TableTemplate {
	return TopologicalSort([]TableTemplate{
		{
			Name: OrderLineItems,
			Columns: []ColumnDef{
				{Name: "id", Type: "SERIAL PRIMARY KEY"},
				{Name: "order_id", Type: "INTEGER"},
				{Name: "product_id", Type: "INTEGER"},
				{Name: "customer_id", Type: "INTEGER"},
				{Name: "refund_id", Type: "INTEGER", Nullable: true},
				{Name: "created_at", Type: "TIMESTAMPTZ"},
				{Name: "quantity", Type: "INTEGER"},
			},
			Indexes: []IndexDef{
				{Name: "idx_order_line_items_order_id", Columns: []string{"order_id"}},
				{Name: "idx_order_line_items_created_at", Columns: []string{"created_at"}},
			},
			ForeignKeys: []FKDef{
				{Column: "product_id", RefTable: Products, RefColumn: "id"},
				{Column: "customer_id", RefTable: Customers, RefColumn: "id"},
				{Column: "refund_id", RefTable: Refunds, RefColumn: "id", OnDelete: "SET NULL"},
			},
		},
		{
			Name: Products,
			Columns: []ColumnDef{
				{Name: "id", Type: "SERIAL PRIMARY KEY"},
				{Name: "name", Type: "VARCHAR(50)"},
				{Name: "created_at", Type: "TIMESTAMPTZ"},
				{Name: "price", Type: "NUMERIC(10, 2)"},
			},
		},
		{
			Name: Customers,
			Columns: []ColumnDef{
				{Name: "id", Type: "SERIAL PRIMARY KEY"},
				{Name: "created_at", Type: "TIMESTAMPTZ"},
				{Name: "first_name", Type: "VARCHAR(50)"},
				{Name: "last_name", Type: "VARCHAR(50)"},
				{Name: "email", Type: "VARCHAR(100)", Unique: true},
			},
		},
		{
			Name: Refunds,
			Columns: []ColumnDef{
				{Name: "id", Type: "SERIAL PRIMARY KEY"},
				{Name: "created_at", Type: "TIMESTAMPTZ"},
				{Name: "reason", Type: "VARCHAR(100)"},
			},
		},
	})
}

// Names returns the table names of tables in order.
func Names(tables []TableTemplate) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// TopologicalSort returns tables in dependency order using Kahn's algorithm.
// Tables without dependencies between them keep their input order.
func TopologicalSort(tables []TableTemplate) []TableTemplate {
	nameSet := make(map[string]bool, len(tables))
	byName := make(map[string]TableTemplate, len(tables))
	for _, t := range tables {
		nameSet[t.Name] = true
		byName[t.Name] = t
	}

	inDegree := make(map[string]int, len(tables))
	dependents := make(map[string][]string) // parent -> children
	for _, t := range tables {
		if _, ok := inDegree[t.Name]; !ok {
			inDegree[t.Name] = 0
		}
		for _, fk := range t.ForeignKeys {
			if nameSet[fk.RefTable] && fk.RefTable != t.Name {
				inDegree[t.Name]++
				dependents[fk.RefTable] = append(dependents[fk.RefTable], t.Name)
			}
		}
	}

	// Seed the queue in input order so the result is stable.
	var queue []string
	for _, t := range tables {
		if inDegree[t.Name] == 0 {
			queue = append(queue, t.Name)
		}
	}

	sorted := make([]TableTemplate, 0, len(tables))
	placed := make(map[string]bool, len(tables))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		sorted = append(sorted, byName[name])
		placed[name] = true
		for _, child := range dependents[name] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	// Cycles: append whatever is left in input order.
	for _, t := range tables {
		if !placed[t.Name] {
			sorted = append(sorted, t)
		}
	}

	return sorted
}

// GenerateDDL produces the CREATE TABLE and CREATE INDEX statements for a template.
// Every statement is guarded with IF NOT EXISTS.
func GenerateDDL(tmpl TableTemplate) []string {
	var stmts []string

	var cols []string
	for _, c := range tmpl.Columns {
		isPK := strings.Contains(strings.ToUpper(c.Type), "PRIMARY KEY")
		col := fmt.Sprintf("  %s %s", PgIdentifier(c.Name), c.Type)
		if c.Unique && !isPK {
			col += " UNIQUE"
		}
		if !c.Nullable && !isPK {
			col += " NOT NULL"
		}
		if c.Default != "" {
			col += " DEFAULT " + c.Default
		}
		cols = append(cols, col)
	}

	for _, fk := range tmpl.ForeignKeys {
		onDelete := "RESTRICT"
		if fk.OnDelete != "" {
			onDelete = fk.OnDelete
		}
		constraint := fmt.Sprintf("  CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s",
			PgIdentifier(fmt.Sprintf("fk_%s_%s", tmpl.Name, fk.Column)),
			PgIdentifier(fk.Column),
			PgIdentifier(fk.RefTable),
			PgIdentifier(fk.RefColumn),
			onDelete,
		)
		cols = append(cols, constraint)
	}

	stmts = append(stmts, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		PgIdentifier(tmpl.Name),
		strings.Join(cols, ",\n"),
	))

	for _, idx := range tmpl.Indexes {
		quotedCols := make([]string, 0, len(idx.Columns))
		for _, c := range idx.Columns {
			quotedCols = append(quotedCols, PgIdentifier(c))
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique,
			PgIdentifier(idx.Name),
			PgIdentifier(tmpl.Name),
			strings.Join(quotedCols, ", "),
		))
	}

	return stmts
}

// PgIdentifier quotes a PostgreSQL identifier to prevent SQL injection.
func PgIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}
