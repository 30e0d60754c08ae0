package operations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/phrazzld/taskgate/internal/domain"
)

const goldSalesQuery = `SELECT SUM(units * price) FROM tickets WHERE type = 'Gold'`

// driverFor picks the database/sql driver for a resolved input. Postgres
// URLs go through pgx, anything else is treated as a SQLite file.
func driverFor(input string) string {
	if strings.HasPrefix(input, "postgres://") || strings.HasPrefix(input, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// CalculateGoldSales writes the total revenue of Gold tickets with two
// decimals. An empty result is reported as 0.00.
func CalculateGoldSales(ctx context.Context, args Args) error {
	driver := driverFor(args.InputPath)
	if driver == "sqlite" {
		if _, err := os.Stat(args.InputPath); err != nil {
			return fmt.Errorf("%w: failed to open database %s: %w", domain.ErrOperation, args.InputPath, err)
		}
	}

	db, err := sql.Open(driver, args.InputPath)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %w", domain.ErrOperation, err)
	}
	defer func() {
		_ = db.Close()
	}()

	var revenue sql.NullFloat64
	if err := db.QueryRowContext(ctx, goldSalesQuery).Scan(&revenue); err != nil {
		return fmt.Errorf("%w: gold sales query failed: %w", domain.ErrOperation, err)
	}

	return writeOutput(ctx, args.OutputPath, []byte(fmt.Sprintf("%.2f", revenue.Float64)))
}
