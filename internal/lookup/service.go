package lookup

import (
	"fmt"
	"log"
	"net/http"

	postalcode "github.com/akl7777777/se-postalcode"
	"github.com/akl7777777/se-postalcode/internal/config"
	"github.com/akl7777777/se-postalcode/internal/store"
)

// TableSourceEmbedded names the reference table compiled into the binary.
const TableSourceEmbedded = "embedded"

// NewValidator builds a validator from cfg. The reference table comes from
// the configured store when TableDBType is set, otherwise from the embedded
// dataset. The returned string names the table source.
func NewValidator(cfg *config.Config) (*postalcode.Validator, string, error) {
	opts := []postalcode.Option{
		postalcode.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		postalcode.WithEndpoint(cfg.BringEndpoint),
	}

	source := TableSourceEmbedded
	if cfg.TableDBType != "" {
		table, err := LoadStore(cfg.TableDBType, cfg.TableDBDSN)
		if err != nil {
			return nil, "", err
		}
		opts = append(opts, postalcode.WithTable(table))
		source = cfg.TableDBType
	}

	v := postalcode.New(cfg.HTTPFallback, opts...)
	log.Printf("[lookup] Loaded %d postal codes from %s table (fallback=%v)", v.Len(), source, cfg.HTTPFallback)
	return v, source, nil
}

// LoadStore reads the whole reference table from a store.
func LoadStore(dbType, dsn string) (map[uint32]string, error) {
	s, err := store.New(dbType, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s table: %w", dbType, err)
	}
	defer s.Close()

	table, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", dbType, err)
	}
	return table, nil
}

// Export writes the validator's reference table to a store and returns the
// number of rows the store holds afterwards.
func Export(v *postalcode.Validator, dbType, dsn string) (int, error) {
	s, err := store.New(dbType, dsn)
	if err != nil {
		return 0, fmt.Errorf("open %s table: %w", dbType, err)
	}
	defer s.Close()

	if err := s.Save(v.Codes()); err != nil {
		return 0, fmt.Errorf("save %s table: %w", dbType, err)
	}
	return s.Size(), nil
}
