package main

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fekuna/omnipos-storefront/internal/catalog"
	invRepoPkg "github.com/fekuna/omnipos-storefront/internal/inventory/repository"
	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	prodRepoPkg "github.com/fekuna/omnipos-storefront/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront/internal/product/usecase"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var (
		catalogURL   string
		inventoryURL string
		locale       string
		timeout      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "query [params]",
		Short: "Load the catalog and print the page selected by a parameter bag",
		Example: `  catalogctl query "categories=98&stock=1&sort=PRICE_ASC"
  catalogctl query --catalog-url http://catalog:8081 "page=1&size=24"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if catalogURL == "" {
				catalogURL = cfg.Services.CatalogURL
			}
			if inventoryURL == "" {
				inventoryURL = cfg.Services.InventoryURL
			}
			if locale == "" {
				locale = cfg.Catalog.Locale
			}

			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			state := navigation.DecodeQuery(raw)

			uc := prodUCPkg.NewCatalogUseCase(
				prodRepoPkg.NewHTTPRepository(httpclient.New(catalogURL, timeout)),
				invRepoPkg.NewHTTPRepository(httpclient.New(inventoryURL, timeout)),
				catalog.NewEngine(locale),
				logger.NewNop(),
			)
			if _, err := uc.Reload(cmd.Context()); err != nil {
				return err
			}
			view, err := uc.Query(state.Query())
			if err != nil {
				return err
			}

			out, err := sonic.ConfigStd.MarshalIndent(struct {
				catalog.View
				Params string `json:"params"`
			}{View: view, Params: navigation.Encode(state).Encode()}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogURL, "catalog-url", "", "catalog service base URL (default CATALOG_URL)")
	cmd.Flags().StringVar(&inventoryURL, "inventory-url", "", "inventory service base URL (default INVENTORY_URL)")
	cmd.Flags().StringVar(&locale, "locale", "", "collation locale (default CATALOG_LOCALE)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per request timeout")
	return cmd
}
