package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venbruno/coffee-shop/internal/schema"
)

func TestTables_CreationOrder(t *testing.T) {
	names := schema.Names(schema.Tables())
	assert.Equal(t, []string{schema.Products, schema.Customers, schema.Refunds, schema.OrderLineItems}, names)
}

func TestTopologicalSort_ParentsFirst(t *testing.T) {
	tables := []schema.TableTemplate{
		{Name: "c", ForeignKeys: []schema.FKDef{{Column: "b_id", RefTable: "b", RefColumn: "id"}}},
		{Name: "b", ForeignKeys: []schema.FKDef{{Column: "a_id", RefTable: "a", RefColumn: "id"}}},
		{Name: "a"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, schema.Names(schema.TopologicalSort(tables)))
}

func TestTopologicalSort_CycleKeepsAllTables(t *testing.T) {
	tables := []schema.TableTemplate{
		{Name: "x", ForeignKeys: []schema.FKDef{{Column: "y_id", RefTable: "y", RefColumn: "id"}}},
		{Name: "y", ForeignKeys: []schema.FKDef{{Column: "x_id", RefTable: "x", RefColumn: "id"}}},
	}
	assert.ElementsMatch(t, []string{"x", "y"}, schema.Names(schema.TopologicalSort(tables)))
}

func TestGenerateDDL_Customers(t *testing.T) {
	var customers schema.TableTemplate
	for _, tmpl := range schema.Tables() {
		if tmpl.Name == schema.Customers {
			customers = tmpl
		}
	}
	stmts := schema.GenerateDDL(customers)
	require.Len(t, stmts, 1)

	ddl := stmts[0]
	assert.True(t, strings.HasPrefix(ddl, `CREATE TABLE IF NOT EXISTS "customers"`))
	assert.Contains(t, ddl, `"id" SERIAL PRIMARY KEY`)
	assert.NotContains(t, ddl, `PRIMARY KEY NOT NULL`)
	assert.Contains(t, ddl, `"email" VARCHAR(100) UNIQUE NOT NULL`)
	assert.Contains(t, ddl, `"created_at" TIMESTAMPTZ NOT NULL`)
}

func TestGenerateDDL_OrderLineItems(t *testing.T) {
	tables := schema.Tables()
	stmts := schema.GenerateDDL(tables[len(tables)-1])
	require.Len(t, stmts, 3)

	ddl := stmts[0]
	assert.Contains(t, ddl, `"refund_id" INTEGER,`)
	assert.Contains(t, ddl, `"product_id" INTEGER NOT NULL`)
	assert.Contains(t, ddl, `CONSTRAINT "fk_order_line_items_product_id" FOREIGN KEY ("product_id") REFERENCES "products"("id") ON DELETE RESTRICT`)
	assert.Contains(t, ddl, `CONSTRAINT "fk_order_line_items_customer_id" FOREIGN KEY ("customer_id") REFERENCES "customers"("id") ON DELETE RESTRICT`)
	assert.Contains(t, ddl, `CONSTRAINT "fk_order_line_items_refund_id" FOREIGN KEY ("refund_id") REFERENCES "refunds"("id") ON DELETE SET NULL`)

	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_order_line_items_order_id" ON "order_line_items" ("order_id")`, stmts[1])
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "idx_order_line_items_created_at" ON "order_line_items" ("created_at")`, stmts[2])
}

func TestGenerateDDL_UniqueIndex(t *testing.T) {
	stmts := schema.GenerateDDL(schema.TableTemplate{
		Name:    "t",
		Columns: []schema.ColumnDef{{Name: "code", Type: "TEXT", Default: "'x'"}},
		Indexes: []schema.IndexDef{{Name: "idx_t_code", Columns: []string{"code"}, Unique: true}},
	})
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], `"code" TEXT NOT NULL DEFAULT 'x'`)
	assert.Equal(t, `CREATE UNIQUE INDEX IF NOT EXISTS "idx_t_code" ON "t" ("code")`, stmts[1])
}

func TestPgIdentifier(t *testing.T) {
	assert.Equal(t, `"products"`, schema.PgIdentifier("products"))
	assert.Equal(t, `"we""ird"`, schema.PgIdentifier(`we"ird`))
}
