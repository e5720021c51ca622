package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	catalogapp "github.com/ramenshop/backend/internal/application/catalog"
	inventoryapp "github.com/ramenshop/backend/internal/application/inventory"
	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/ramenshop/backend/internal/infrastructure/persistence"
	"github.com/ramenshop/backend/internal/infrastructure/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// menuFile is the layout of a seed file
type menuFile struct {
	Products        []seedProduct `yaml:"products"`
	Recipes         []seedRecipe  `yaml:"recipes"`
	Fridges         []seedFridge  `yaml:"fridges"`
	ProductionItems []seedItem    `yaml:"production_items"`
}

type seedProduct struct {
	Name        string          `yaml:"name"`
	Slug        string          `yaml:"slug"`
	Description string          `yaml:"description"`
	Category    string          `yaml:"category"`
	Price       decimal.Decimal `yaml:"price"`
	ImageURL    string          `yaml:"image_url"`
	Featured    bool            `yaml:"featured"`
	SortOrder   int             `yaml:"sort_order"`
}

type seedRecipe struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Summary     string   `yaml:"summary"`
	Ingredients []string `yaml:"ingredients"`
	Steps       []string `yaml:"steps"`
	PrepMinutes int      `yaml:"prep_minutes"`
	CookMinutes int      `yaml:"cook_minutes"`
	Servings    int      `yaml:"servings"`
	ImageURL    string   `yaml:"image_url"`
}

type seedFridge struct {
	Name          string          `yaml:"name"`
	Location      string          `yaml:"location"`
	Kind          string          `yaml:"kind"`
	CapacityCases decimal.Decimal `yaml:"capacity_cases"`
}

type seedItem struct {
	Name            string `yaml:"name"`
	SKU             string `yaml:"sku"`
	Category        string `yaml:"category"`
	PortionsPerCase int    `yaml:"portions_per_case"`
	ParLevelCases   int    `yaml:"par_level_cases"`
	ShelfLifeDays   int    `yaml:"shelf_life_days"`
}

// parseMenu decodes a seed file. Unknown keys are rejected so typos do not
// silently drop data.
func parseMenu(r io.Reader) (*menuFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m menuFile
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return &m, nil
}

type productCreator interface {
	Create(ctx context.Context, req catalogapp.ProductRequest) (*catalogapp.ProductResponse, error)
}

type recipeCreator interface {
	Create(ctx context.Context, req catalogapp.RecipeRequest) (*catalogapp.RecipeResponse, error)
}

type fridgeCatalog interface {
	List(ctx context.Context, activeOnly bool) ([]inventoryapp.FridgeResponse, error)
	Create(ctx context.Context, req inventoryapp.FridgeRequest) (*inventoryapp.FridgeResponse, error)
}

type itemCreator interface {
	Create(ctx context.Context, req inventoryapp.ProductionItemRequest) (*inventoryapp.ProductionItemResponse, error)
}

// seeder writes a menu through the application services, so seeded rows
// pass the same rules as rows created through the API
type seeder struct {
	products productCreator
	recipes  recipeCreator
	fridges  fridgeCatalog
	items    itemCreator
	validate *validator.Validate
	log      *zap.Logger
}

// seedResult counts what a run created and skipped
type seedResult struct {
	Created int
	Skipped int
}

func newSeeder(products productCreator, recipes recipeCreator, fridges fridgeCatalog, items itemCreator, log *zap.Logger) *seeder {
	v := validator.New()
	// request types carry gin's binding tags
	v.SetTagName("binding")
	return &seeder{products: products, recipes: recipes, fridges: fridges, items: items, validate: v, log: log}
}

// Seed creates everything in m. Rows whose slug, SKU or fridge name already
// exist are skipped, so a file can be applied repeatedly.
func (s *seeder) Seed(ctx context.Context, m *menuFile) (seedResult, error) {
	ctx = shared.WithActor(ctx, shared.ServiceActor())
	var res seedResult

	for _, p := range m.Products {
		req := catalogapp.ProductRequest{
			Name: p.Name, Slug: p.Slug, Description: p.Description, Category: p.Category,
			Price: p.Price, ImageURL: p.ImageURL, Featured: p.Featured, SortOrder: p.SortOrder,
		}
		if err := s.create(&res, "product", p.Name, req, func() error {
			_, err := s.products.Create(ctx, req)
			return err
		}); err != nil {
			return res, err
		}
	}

	for _, r := range m.Recipes {
		req := catalogapp.RecipeRequest{
			Title: r.Title, Slug: r.Slug, Summary: r.Summary, Ingredients: r.Ingredients, Steps: r.Steps,
			PrepMinutes: r.PrepMinutes, CookMinutes: r.CookMinutes, Servings: r.Servings, ImageURL: r.ImageURL,
		}
		if err := s.create(&res, "recipe", r.Title, req, func() error {
			_, err := s.recipes.Create(ctx, req)
			return err
		}); err != nil {
			return res, err
		}
	}

	if len(m.Fridges) > 0 {
		existing, err := s.fridges.List(ctx, false)
		if err != nil {
			return res, err
		}
		names := make(map[string]bool, len(existing))
		for _, f := range existing {
			names[strings.ToLower(f.Name)] = true
		}
		for _, f := range m.Fridges {
			if names[strings.ToLower(f.Name)] {
				s.log.Info("Skipping existing fridge", zap.String("name", f.Name))
				res.Skipped++
				continue
			}
			req := inventoryapp.FridgeRequest{Name: f.Name, Location: f.Location, Kind: f.Kind, CapacityCases: f.CapacityCases}
			if err := s.create(&res, "fridge", f.Name, req, func() error {
				_, err := s.fridges.Create(ctx, req)
				return err
			}); err != nil {
				return res, err
			}
			names[strings.ToLower(f.Name)] = true
		}
	}

	for _, it := range m.ProductionItems {
		req := inventoryapp.ProductionItemRequest{
			Name: it.Name, SKU: it.SKU, Category: it.Category, PortionsPerCase: it.PortionsPerCase,
			ParLevelCases: it.ParLevelCases, ShelfLifeDays: it.ShelfLifeDays,
		}
		if err := s.create(&res, "production item", it.Name, req, func() error {
			_, err := s.items.Create(ctx, req)
			return err
		}); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (s *seeder) create(res *seedResult, kind, name string, req any, create func() error) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%s %q: %w", kind, name, err)
	}
	err := create()
	var de *shared.DomainError
	switch {
	case err == nil:
		s.log.Info("Created "+kind, zap.String("name", name))
		res.Created++
		return nil
	case errors.As(err, &de) && strings.HasSuffix(de.Code, "_TAKEN"):
		s.log.Info("Skipping existing "+kind, zap.String("name", name), zap.String("reason", de.Code))
		res.Skipped++
		return nil
	default:
		return fmt.Errorf("%s %q: %w", kind, name, err)
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products, recipes, fridges and production items from a YAML file",
		Example: `  ramenctl seed --file menu.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			menu, err := parseMenu(f)
			if err != nil {
				return err
			}

			cfg, db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			codes := qrcode.NewGenerator(cfg.App.PublicBaseURL)
			fridgeRepo := persistence.NewGormFridgeRepository(db.DB)
			itemRepo := persistence.NewGormProductionItemRepository(db.DB)
			s := newSeeder(
				catalogapp.NewProductService(persistence.NewGormProductRepository(db.DB), a.log),
				catalogapp.NewRecipeService(persistence.NewGormRecipeRepository(db.DB), a.log),
				inventoryapp.NewFridgeService(fridgeRepo, itemRepo,
					persistence.NewGormStockRepository(db.DB), persistence.NewGormMovementRepository(db.DB),
					persistence.NewGormTransactionScope(db.DB), codes, a.log),
				inventoryapp.NewProductionItemService(itemRepo, codes, a.log),
				a.log,
			)
			res, err := s.Seed(cmd.Context(), menu)
			if err != nil {
				return err
			}
			a.log.Info("Seed finished", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "menu.yaml", "Seed file to load")
	return cmd
}
