// Package main provides the tokopos maintenance CLI.
//
// Usage:
//
//	posctl <command> [args]
//
// Commands:
//
//	migrate             bring the store schema up to date
//	seed                load demo catalog data
//	users               list accounts
//	adduser <name> <password> <role>
//	passwd <name> <password>
//	migrate-passwords   hash any plaintext password columns
//	backup              take a store snapshot
//	restore <path>      replace the store with a snapshot
//	export-csv          export the catalog
//	import-csv <path>   import a catalog file (upsert by barcode)
//	reset-history       delete all committed sales
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"tokopos/internal/backup"
	"tokopos/internal/core/session"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/identity"
	"tokopos/internal/domain/receipt"
	"tokopos/internal/domain/sale"
	"tokopos/internal/settings"
	"tokopos/internal/storage/sqlite"
	"tokopos/pkg/logger"
)

type app struct {
	store    *sqlite.Store
	users    *identity.Service
	catalog  *catalog.Service
	backups  *backup.Service
	saleProc *sale.Processor
	log      *logger.Logger
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: getEnv("LOG_LEVEL", "warn"), Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := session.WithActor(context.Background(), &session.Actor{
		Username: "posctl",
		Role:     session.RoleAdmin,
	})

	dataDir := getEnv("DATA_DIR", "data")
	store, err := sqlite.Open(dataDir)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalw("failed to migrate store", "error", err)
	}

	txm := store.TxManager()
	auditService := audit.NewService(sqlite.NewAuditRepository(txm))
	productRepo := sqlite.NewProductRepository(txm)
	saleRepo := sqlite.NewSaleRepository(txm)

	settingsStore, err := settings.NewStore(dataDir)
	if err != nil {
		log.Fatalw("failed to load settings", "error", err)
	}

	a := &app{
		store:   store,
		users:   identity.NewService(txm, sqlite.NewUserRepository(txm), auditService, 0),
		catalog: catalog.NewService(txm, productRepo, auditService),
		backups: backup.New(store.Path(), store.BackupPath(), store.ExportPath(), txm, productRepo, auditService),
		saleProc: sale.NewProcessor(
			txm, saleRepo, productRepo, auditService,
			settingsStore, receipt.NullRenderer{}, getEnv("RECEIPT_DIR", "struk"),
		),
		log: log,
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "migrate":
		// Migrate already ran on open.
		fmt.Println("schema up to date")
		return nil

	case "seed":
		return a.seed(ctx)

	case "users":
		users, err := a.users.List(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%d\t%s\t%s\n", u.ID, u.Username, u.Role)
		}
		return nil

	case "adduser":
		if len(args) != 3 {
			return fmt.Errorf("usage: posctl adduser <name> <password> <role>")
		}
		u, err := a.users.Create(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("user %s created (id=%d)\n", u.Username, u.ID)
		return nil

	case "passwd":
		if len(args) != 2 {
			return fmt.Errorf("usage: posctl passwd <name> <password>")
		}
		return a.passwd(ctx, args[0], args[1])

	case "migrate-passwords":
		n, err := a.users.MigratePasswords(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d password(s) migrated\n", n)
		return nil

	case "backup":
		path, err := a.backups.Backup(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("backup written to %s\n", path)
		return nil

	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("usage: posctl restore <path>")
		}
		if !confirm(fmt.Sprintf("replace the store with %s?", args[0])) {
			fmt.Println("aborted")
			return nil
		}
		if err := a.store.Close(); err != nil {
			return err
		}
		return a.backups.Restore(ctx, args[0])

	case "export-csv":
		path, err := a.backups.ExportCatalogCSV(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("catalog exported to %s\n", path)
		return nil

	case "import-csv":
		if len(args) != 1 {
			return fmt.Errorf("usage: posctl import-csv <path>")
		}
		summary, err := a.backups.ImportCatalogCSV(ctx, args[0], func(existing, incoming catalog.Product) bool {
			return confirm(fmt.Sprintf("overwrite %s (%s -> %s, %s -> %s)?",
				existing.Barcode,
				existing.Nama, incoming.Nama,
				existing.Harga.StringFixed(2), incoming.Harga.StringFixed(2)))
		})
		if err != nil {
			return err
		}
		fmt.Printf("created=%d updated=%d skipped=%d\n", summary.Created, summary.Updated, summary.Skipped)
		return nil

	case "reset-history":
		if !confirm("delete ALL committed sales?") {
			fmt.Println("aborted")
			return nil
		}
		if err := a.saleProc.ResetHistory(ctx); err != nil {
			return err
		}
		fmt.Println("sales history deleted")
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) passwd(ctx context.Context, username, password string) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == username {
			if err := a.users.ChangePassword(ctx, u.ID, password); err != nil {
				return err
			}
			fmt.Printf("password for %s updated\n", username)
			return nil
		}
	}
	return fmt.Errorf("user %q not found", username)
}

func (a *app) seed(ctx context.Context) error {
	if err := a.users.Bootstrap(ctx); err != nil {
		return err
	}

	demo := []catalog.Product{
		{Barcode: "8991001101234", Nama: "Indomie Goreng", Harga: types.MustMoney("3500"), Stok: 120},
		{Barcode: "8991001105678", Nama: "Teh Botol Sosro 450ml", Harga: types.MustMoney("5000"), Stok: 48},
		{Barcode: "8991001109012", Nama: "Beras Premium 5kg", Harga: types.MustMoney("72000"), Stok: 15},
		{Barcode: "8991001103456", Nama: "Minyak Goreng 1L", Harga: types.MustMoney("18500"), Stok: 30},
		{Barcode: "8991001107890", Nama: "Sabun Mandi Batang", Harga: types.MustMoney("4500"), Stok: 60},
	}
	seeded := 0
	for i := range demo {
		p := demo[i]
		existing, err := a.catalog.FindByBarcode(ctx, p.Barcode)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := a.catalog.Create(ctx, &p); err != nil {
			return err
		}
		seeded++
	}
	fmt.Printf("%d demo product(s) seeded\n", seeded)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: posctl <command> [args]")
	fmt.Fprintln(os.Stderr, "commands: migrate, seed, users, adduser, passwd, migrate-passwords,")
	fmt.Fprintln(os.Stderr, "          backup, restore, export-csv, import-csv, reset-history")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
