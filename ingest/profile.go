package ingest

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const BillSummaries = "billsum"

//go:embed profiles.yaml
var profilesYAML []byte

// Profile describes how one bulk data collection is loaded into the index.
type Profile struct {
	BulkCollection  string    `yaml:"bulk_collection"`
	IndexCollection string    `yaml:"index_collection"`
	Selectors       Selectors `yaml:"selectors"`
}

func Profiles() (map[string]Profile, error) {
	var profiles map[string]Profile
	if err := yaml.Unmarshal(profilesYAML, &profiles); err != nil {
		return nil, fmt.Errorf("parse ingestion profiles: %w", err)
	}
	return profiles, nil
}

func LookupProfile(name string) (Profile, error) {
	profiles, err := Profiles()
	if err != nil {
		return Profile{}, err
	}
	profile, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown ingestion profile %q", name)
	}
	return profile, nil
}
