package memory

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial content of a Store.
type Seed struct {
	Squads       []domain.Squad
	Anomalies    []domain.Anomaly
	Charges      []domain.Charge
	Integrations []domain.Integration
}

type seedFile struct {
	Squads []struct {
		ID     string  `yaml:"id"`
		Name   string  `yaml:"name"`
		Owner  string  `yaml:"owner"`
		Budget float64 `yaml:"budget"`
	} `yaml:"squads"`
	Anomalies []struct {
		ID          string   `yaml:"id"`
		SquadID     string   `yaml:"squadId"`
		Title       string   `yaml:"title"`
		Description string   `yaml:"description"`
		Severity    string   `yaml:"severity"`
		Confidence  int      `yaml:"confidence"`
		Impact      float64  `yaml:"impact"`
		Timestamp   string   `yaml:"timestamp"`
		Status      string   `yaml:"status"`
		RootCause   []string `yaml:"rootCause"`
		Evidence    []struct {
			Name string `yaml:"name"`
			URL  string `yaml:"url"`
		} `yaml:"evidence"`
	} `yaml:"anomalies"`
	Charges []struct {
		ID         string   `yaml:"id"`
		SquadID    string   `yaml:"squadId"`
		Service    string   `yaml:"service"`
		Amount     float64  `yaml:"amount"`
		Timestamp  string   `yaml:"timestamp"`
		Account    string   `yaml:"account"`
		CostCenter string   `yaml:"costCenter"`
		Tags       []string `yaml:"tags"`
		Resource   string   `yaml:"resource"`
	} `yaml:"charges"`
	Integrations []struct {
		ID               string  `yaml:"id"`
		Name             string  `yaml:"name"`
		Status           string  `yaml:"status"`
		LastSync         *string `yaml:"lastSync"`
		NextSync         string  `yaml:"nextSync"`
		RecordsProcessed *int64  `yaml:"recordsProcessed"`
		DataSource       string  `yaml:"dataSource"`
	} `yaml:"integrations"`
}

// DefaultSeed returns the demonstration data shipped with the binary.
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeed)
}

// ParseSeed decodes a YAML seed document and validates it.
func ParseSeed(data []byte) (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Seed{}, fmt.Errorf("failed to decode seed: %w", err)
	}

	var seed Seed
	for _, s := range f.Squads {
		seed.Squads = append(seed.Squads, domain.Squad{ID: s.ID, Name: s.Name, Owner: s.Owner, Budget: s.Budget})
	}
	for _, a := range f.Anomalies {
		anomaly := domain.Anomaly{
			ID:          a.ID,
			SquadID:     a.SquadID,
			Title:       a.Title,
			Description: a.Description,
			Severity:    domain.Severity(a.Severity),
			Confidence:  a.Confidence,
			Impact:      a.Impact,
			Detected:    a.Timestamp,
			Status:      domain.AnomalyStatus(a.Status),
			RootCause:   a.RootCause,
		}
		for _, e := range a.Evidence {
			anomaly.Evidence = append(anomaly.Evidence, domain.Evidence{Name: e.Name, URL: e.URL})
		}
		seed.Anomalies = append(seed.Anomalies, anomaly)
	}
	for _, c := range f.Charges {
		seed.Charges = append(seed.Charges, domain.Charge{
			ID:         c.ID,
			SquadID:    c.SquadID,
			Service:    c.Service,
			Amount:     c.Amount,
			Timestamp:  c.Timestamp,
			Account:    c.Account,
			CostCenter: c.CostCenter,
			Tags:       c.Tags,
			Resource:   c.Resource,
		})
	}
	for _, i := range f.Integrations {
		seed.Integrations = append(seed.Integrations, domain.Integration{
			ID:               i.ID,
			Name:             i.Name,
			Status:           domain.IntegrationStatus(i.Status),
			LastSync:         i.LastSync,
			NextSync:         i.NextSync,
			RecordsProcessed: i.RecordsProcessed,
			DataSource:       domain.DataSource(i.DataSource),
		})
	}

	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// Validate checks referential integrity, enumerations, ranges and id uniqueness.
func (s Seed) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidArgument}, args...)...))
	}

	squads := make(map[string]struct{}, len(s.Squads))
	for _, sq := range s.Squads {
		if sq.ID == "" {
			invalid("squad with empty id")
			continue
		}
		if _, dup := squads[sq.ID]; dup {
			invalid("duplicate squad id %s", sq.ID)
		}
		squads[sq.ID] = struct{}{}
	}

	ids := make(map[string]struct{})
	unique := func(kind, id string) {
		if id == "" {
			invalid("%s with empty id", kind)
			return
		}
		if _, dup := ids[kind+"/"+id]; dup {
			invalid("duplicate %s id %s", kind, id)
		}
		ids[kind+"/"+id] = struct{}{}
	}

	for _, a := range s.Anomalies {
		unique("anomaly", a.ID)
		if _, ok := squads[a.SquadID]; !ok {
			invalid("anomaly %s references unknown squad %s", a.ID, a.SquadID)
		}
		if !a.Severity.Valid() {
			invalid("anomaly %s has unknown severity %q", a.ID, a.Severity)
		}
		if !a.Status.Valid() {
			invalid("anomaly %s has unknown status %q", a.ID, a.Status)
		}
		if a.Confidence < 0 || a.Confidence > 100 {
			invalid("anomaly %s confidence %d out of range", a.ID, a.Confidence)
		}
		if a.Impact < 0 {
			invalid("anomaly %s has negative impact", a.ID)
		}
	}
	for _, c := range s.Charges {
		unique("charge", c.ID)
		if _, ok := squads[c.SquadID]; !ok {
			invalid("charge %s references unknown squad %s", c.ID, c.SquadID)
		}
		if c.Amount < 0 {
			invalid("charge %s has negative amount", c.ID)
		}
	}
	for _, i := range s.Integrations {
		unique("integration", i.ID)
		if !i.Status.Valid() {
			invalid("integration %s has unknown status %q", i.ID, i.Status)
		}
		if !i.DataSource.Valid() {
			invalid("integration %s has unknown data source %q", i.ID, i.DataSource)
		}
	}

	return errors.Join(errs...)
}
