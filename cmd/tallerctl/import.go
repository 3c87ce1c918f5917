package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Columnas esperadas del CSV de inventario (la primera fila es el encabezado).
var inventoryColumns = []string{"name", "sku", "category", "quantity", "min_stock_level", "unit_price", "cost_price", "supplier", "location"}

type importFlags struct {
	serviceID string
	file      string
	charset   string
	dryRun    bool
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "import", Short: "Cargas masivas"}
	var flags importFlags
	inv := &cobra.Command{
		Use:   "inventory",
		Short: "Carga artículos de inventario desde un CSV del proveedor",
		Long:  "Carga artículos de inventario desde un CSV. Columnas reconocidas: " + strings.Join(inventoryColumns, ", "),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.serviceID == "" || flags.file == "" {
				return errors.New("--service y --file son obligatorios")
			}
			f, err := os.Open(flags.file)
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()
			rows, err := parseInventoryCSV(f, flags.charset)
			if err != nil {
				return err
			}
			if flags.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d artículos válidos (sin guardar)\n", len(rows))
				return nil
			}

			cfg, log, err := env()
			if err != nil {
				return err
			}
			if cfg.App.StoreDriver == "memory" {
				return errors.New("import requiere un backend persistente (STORE_DRIVER=postgres|dynamodb)")
			}
			repos, err := openRepos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer repos.Close()

			uc := inventory.NewInventoryUseCase(repos.Inventory)
			sess := auth.Session{ServiceID: flags.serviceID, Role: entity.RoleOwner}
			for i, row := range rows {
				if _, err := uc.Create(cmd.Context(), sess, row); err != nil {
					return fmt.Errorf("fila %d (%s): %w", i+2, row.Name, err)
				}
			}
			log.Info().Int("items", len(rows)).Str("service_id", flags.serviceID).Msg("inventario importado")
			return nil
		},
	}
	f := inv.Flags()
	f.StringVar(&flags.serviceID, "service", "", "ID del taller destino")
	f.StringVar(&flags.file, "file", "", "Ruta del CSV")
	f.StringVar(&flags.charset, "charset", "utf-8", "Codificación del archivo: utf-8 o latin1")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Solo valida el archivo")
	cmd.AddCommand(inv)
	return cmd
}

// parseInventoryCSV lee el CSV y devuelve una petición de alta por fila.
// Las exportaciones de hojas de cálculo en Windows suelen venir en ISO-8859-1.
func parseInventoryCSV(r io.Reader, charset string) ([]dto.CreateInventoryRequest, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado %q", charset)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := idx["name"]; !ok {
		return nil, errors.New("el encabezado debe incluir la columna name")
	}
	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateInventoryRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := dto.CreateInventoryRequest{
			Name:     get(rec, "name"),
			SKU:      get(rec, "sku"),
			Category: get(rec, "category"),
			Supplier: get(rec, "supplier"),
			Location: get(rec, "location"),
		}
		if row.Name == "" {
			return nil, fmt.Errorf("línea %d: name vacío", line)
		}
		if v := get(rec, "quantity"); v != "" {
			if row.Quantity, err = strconv.Atoi(v); err != nil || row.Quantity < 0 {
				return nil, fmt.Errorf("línea %d: quantity inválida %q", line, v)
			}
		}
		if v := get(rec, "min_stock_level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: min_stock_level inválido %q", line, v)
			}
			row.MinStockLevel = &n
		}
		if v := get(rec, "unit_price"); v != "" {
			if row.UnitPrice, err = decimal.NewFromString(strings.ReplaceAll(v, ",", ".")); err != nil {
				return nil, fmt.Errorf("línea %d: unit_price inválido %q", line, v)
			}
		}
		if v := get(rec, "cost_price"); v != "" {
			d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("línea %d: cost_price inválido %q", line, v)
			}
			row.CostPrice = &d
		}
		out = append(out, row)
	}
	return out, nil
}
