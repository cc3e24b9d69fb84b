// cmd/seed-badges - Seeds the static milestone badge catalog
package main

import (
	"log"
	"volunhub/database"
	"volunhub/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

var catalog = []models.Badge{
	{Slug: models.BadgeLevel5, Name: "Seasoned Volunteer", Description: "Reached level 5", Icon: "🌿"},
	{Slug: models.BadgeLevel10, Name: "Veteran Volunteer", Description: "Reached level 10", Icon: "🌳"},
	{Slug: models.BadgeXP1000, Name: "Rising Star", Description: "Earned 1,000 XP", Icon: "⭐"},
	{Slug: models.BadgeXP5000, Name: "Community Pillar", Description: "Earned 5,000 XP", Icon: "🌟"},
	{Slug: models.BadgeXP10000, Name: "Local Legend", Description: "Earned 10,000 XP", Icon: "🏆"},
	{Slug: models.BadgeConnections5, Name: "Networker", Description: "Made 5 connections", Icon: "🤝"},
	{Slug: models.BadgeConnections20, Name: "Community Builder", Description: "Made 20 connections", Icon: "🏘️"},
	{Slug: models.BadgeFirstTask, Name: "First Steps", Description: "Completed a first task", Icon: "👣"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	defer database.CloseDB()

	db := database.GetDB()

	for _, badge := range catalog {
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&badge)
		if res.Error != nil {
			log.Fatalf("❌ Failed to seed badge %s: %v", badge.Slug, res.Error)
		}
		if res.RowsAffected == 1 {
			log.Printf("✅ Seeded badge %s", badge.Slug)
		}
	}

	log.Println("✅ Badge catalog seeded")
}
