package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cafepos/internal/models"
	"cafepos/internal/repositories"
)

type menuItem struct {
	name     string
	category string
	price    int64
	cost     int64
	stock    int
}

var defaultMenu = []menuItem{
	{"Cà phê đen", "coffee", 25000, 8000, 200},
	{"Cà phê sữa", "coffee", 29000, 10000, 200},
	{"Bạc xỉu", "coffee", 32000, 11000, 150},
	{"Cold brew", "coffee", 45000, 15000, 60},
	{"Trà đào cam sả", "tea", 45000, 14000, 100},
	{"Trà sen vàng", "tea", 42000, 13000, 100},
	{"Sinh tố bơ", "smoothie", 49000, 20000, 40},
	{"Bánh mì thịt", "food", 30000, 14000, 50},
	{"Bánh flan", "dessert", 20000, 7000, 30},
}

// seedMenu fills an empty product catalogue with the house menu.
func seedMenu(repo repositories.ProductRepository, log zerolog.Logger) {
	existing, err := repo.GetAll()
	if err != nil {
		log.Warn().Err(err).Msg("skipping menu seed")
		return
	}
	if len(existing) > 0 {
		return
	}
	for _, item := range defaultMenu {
		product := &models.Product{
			Name:          item.name,
			Category:      item.category,
			Price:         decimal.NewFromInt(item.price),
			CostPrice:     decimal.NewFromInt(item.cost),
			StockQuantity: item.stock,
			IsAvailable:   true,
			IsActive:      true,
		}
		if err := repo.Create(product); err != nil {
			log.Warn().Err(err).Str("product", item.name).Msg("failed to seed product")
		}
	}
	log.Info().Int("count", len(defaultMenu)).Msg("seeded menu")
}

// seedTables creates "Bàn 1".."Bàn 8" on an empty floor plan.
func seedTables(repo repositories.TableRepository, log zerolog.Logger) {
	existing, err := repo.GetAll()
	if err != nil {
		log.Warn().Err(err).Msg("skipping table seed")
		return
	}
	if len(existing) > 0 {
		return
	}
	const count = 8
	for i := 1; i <= count; i++ {
		area, capacity := "indoor", 4
		if i > 6 {
			area, capacity = "terrace", 6
		}
		table := &models.Table{
			Name:     fmt.Sprintf("Bàn %d", i),
			Area:     area,
			Capacity: capacity,
			Status:   models.TableStatusAvailable,
			IsActive: true,
		}
		if err := repo.Create(table); err != nil {
			log.Warn().Err(err).Str("table", table.Name).Msg("failed to seed table")
		}
	}
	log.Info().Int("count", count).Msg("seeded tables")
}
