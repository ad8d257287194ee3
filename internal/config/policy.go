package config

import (
	"fmt"

	"stockview/internal/models"

	"github.com/BurntSushi/toml"
)

// LoadPolicy loads the sheet policy from a TOML file. An empty filename
// yields the built-in policy. Keys the file leaves out keep their built-in
// values, except that a file listing any [[sheet]] or [[shelf_life_option]]
// replaces that whole list.
func LoadPolicy(filename string) (*models.Policy, error) {
	policy := models.DefaultPolicy()
	if filename == "" {
		return policy, nil
	}

	var file models.Policy
	md, err := toml.DecodeFile(filename, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in policy file: %v", undecoded)
	}

	if md.IsDefined("default_shelf_life_months") {
		policy.DefaultShelfLifeMonths = file.DefaultShelfLifeMonths
	}
	if md.IsDefined("shelf_life_option") {
		policy.Options = file.Options
	}
	if md.IsDefined("sheet") {
		policy.Sheets = file.Sheets
	}

	if err := validatePolicy(policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func validatePolicy(p *models.Policy) error {
	if p.DefaultShelfLifeMonths <= 0 {
		return fmt.Errorf("default_shelf_life_months must be positive, got %d", p.DefaultShelfLifeMonths)
	}
	seen := make(map[int]bool, len(p.Options))
	for _, o := range p.Options {
		if o.Months <= 0 {
			return fmt.Errorf("shelf_life_option %q: months must be positive", o.Label)
		}
		if seen[o.Months] {
			return fmt.Errorf("shelf_life_option %d listed twice", o.Months)
		}
		seen[o.Months] = true
	}
	names := make(map[string]bool, len(p.Sheets))
	for _, s := range p.Sheets {
		if s.Name == "" {
			return fmt.Errorf("sheet policy without a name")
		}
		if names[s.Name] {
			return fmt.Errorf("sheet %q configured twice", s.Name)
		}
		names[s.Name] = true
		if s.ShelfLifeMonths < 0 {
			return fmt.Errorf("sheet %q: shelf_life_months must not be negative", s.Name)
		}
	}
	return nil
}
