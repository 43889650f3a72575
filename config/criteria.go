package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"housing-agent/models"
)

// DefaultCriteria is the search a run uses when no criteria file exists.
func DefaultCriteria() models.FilterCriteria {
	return models.FilterCriteria{
		MaxPrice:             340000,
		MinSqm:               80,
		MinRooms:             3,
		MinBathrooms:         2,
		RequireClosedKitchen: true,
		Areas: []string{
			"Tineretului", "Timpuri Noi", "Calea Calarasilor", "Bulevardul Corneliu Coposu",
			"Strada Delea Veche", "Strada Delea Noua", "Bulevardul Mihai Eminescu",
			"Strada Vatra Luminoasa", "Strada Campia Libertatii", "Bulevardul Liviu Rebreanu",
			"Bulevardul Decebal", "Bulevardul Burebista", "Calea Dudesti", "Bulevardul Dacia",
			"Strada Eufrosina Popescu", "Strada Racari", "Strada Diligentei", "Strada Dristorului",
			"Strada Traian Popovici", "Strada Popa Nan", "Dristor", "Titan", "Vitan", "Iancului",
			"Obor", "Unirii", "Nicolae Grigorescu", "1 Decembrie", "Pallady", "Nicolae Teclu",
			"Sector 3",
		},
		PremiumAreas:   []string{"Tineretului", "Unirii", "Oraselul Copiilor"},
		FavorablePrice: 300000,
		PriorityYear:   2010,
	}
}

// LoadCriteria reads criteria from a YAML file. Keys missing from the file
// keep their default value. A missing file yields DefaultCriteria.
func LoadCriteria(path string) (models.FilterCriteria, error) {
	c := DefaultCriteria()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("criteria: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("criteria: parse %s: %w", path, err)
	}
	if err := validate(c); err != nil {
		return c, fmt.Errorf("criteria: %s: %w", path, err)
	}
	return c, nil
}

func validate(c models.FilterCriteria) error {
	switch {
	case c.MaxPrice <= 0:
		return errors.New("max_price must be positive")
	case c.MinSqm < 0 || c.MinRooms < 0 || c.MinBathrooms < 0:
		return errors.New("minimums must not be negative")
	case c.FavorablePrice > c.MaxPrice:
		return fmt.Errorf("favorable_price %.0f above max_price %.0f", c.FavorablePrice, c.MaxPrice)
	}
	return nil
}
