package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/pkg/log"
	"github.com/firesafe/estimator/pkg/metrics"
)

// ConfigurationService owns the editable catalog, rules and company info.
// Every read returns a migrated configuration; every write is validated and
// stamped with updatedAt before it is stored as a whole document.
type ConfigurationService struct {
	store  store.Store
	logger *log.StructuredLogger
	now    func() time.Time
}

func NewConfigurationService(s store.Store) *ConfigurationService {
	return &ConfigurationService{
		store:  s,
		logger: log.NewDebugLogger("configuration_service"),
		now:    time.Now,
	}
}

// WithClock replaces the clock used to stamp updatedAt.
func (c *ConfigurationService) WithClock(now func() time.Time) *ConfigurationService {
	c.now = now
	return c
}

// Get returns the stored configuration, or the built-in default when nothing is stored.
func (c *ConfigurationService) Get(ctx context.Context) (estimation.Configuration, error) {
	tracer := c.logger.WithContext(ctx).Operation("get_configuration").Build()

	cfg, err := c.store.Configuration().Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			tracer.Step("default_configuration").Log()
			return estimation.DefaultConfiguration(), nil
		}
		tracer.Error(err).Log()
		return estimation.Configuration{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	stored := cfg.SchemaVersion
	migrated := estimation.Migrate(*cfg)
	tracer.Success().
		WithInt("schema_version", stored).
		WithInt("equipments", len(migrated.Equipments)).
		Log()
	return migrated, nil
}

func (c *ConfigurationService) Update(ctx context.Context, cfg estimation.Configuration) (estimation.Configuration, error) {
	tracer := c.logger.WithContext(ctx).Operation("update_configuration").
		WithInt("equipments", len(cfg.Equipments)).
		Build()

	saved, err := c.save(ctx, cfg)
	if err != nil {
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	metrics.IncreaseConfigChangesMetric("update")
	tracer.Success().Log()
	return saved, nil
}

// Reset stores the built-in default, stamped with the current time.
func (c *ConfigurationService) Reset(ctx context.Context) (estimation.Configuration, error) {
	tracer := c.logger.WithContext(ctx).Operation("reset_configuration").Build()

	saved, err := c.save(ctx, estimation.DefaultConfiguration())
	if err != nil {
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	metrics.IncreaseConfigChangesMetric("reset")
	tracer.Success().Log()
	return saved, nil
}

// AddEquipment appends eq to the catalog. User-added entries are never default entries.
func (c *ConfigurationService) AddEquipment(ctx context.Context, eq estimation.Equipment) (estimation.Configuration, error) {
	return c.modify(ctx, "add_equipment", func(cfg *estimation.Configuration) error {
		eq.ID = strings.TrimSpace(eq.ID)
		if _, found := cfg.Equipment(eq.ID); found {
			return NewErrDuplicateEquipment(eq.ID)
		}
		eq.IsDefault = false
		cfg.Equipments = append(cfg.Equipments, eq)
		return nil
	})
}

// UpdateEquipment replaces the entry with the given id, keeping its position in the catalog.
func (c *ConfigurationService) UpdateEquipment(ctx context.Context, id string, eq estimation.Equipment) (estimation.Configuration, error) {
	return c.modify(ctx, "update_equipment", func(cfg *estimation.Configuration) error {
		for i := range cfg.Equipments {
			if cfg.Equipments[i].ID != id {
				continue
			}
			if eq.ID == "" {
				eq.ID = id
			}
			if eq.ID != id {
				if _, found := cfg.Equipment(eq.ID); found {
					return NewErrDuplicateEquipment(eq.ID)
				}
			}
			eq.IsDefault = cfg.Equipments[i].IsDefault
			cfg.Equipments[i] = eq
			return nil
		}
		return NewErrEquipmentNotFound(id)
	})
}

func (c *ConfigurationService) RemoveEquipment(ctx context.Context, id string) (estimation.Configuration, error) {
	return c.modify(ctx, "remove_equipment", func(cfg *estimation.Configuration) error {
		kept := make([]estimation.Equipment, 0, len(cfg.Equipments))
		for _, eq := range cfg.Equipments {
			if eq.ID != id {
				kept = append(kept, eq)
			}
		}
		if len(kept) == len(cfg.Equipments) {
			return NewErrEquipmentNotFound(id)
		}
		cfg.Equipments = kept
		return nil
	})
}

// UpdateRules replaces the rule tables that are set in rules and keeps the others.
func (c *ConfigurationService) UpdateRules(ctx context.Context, rules estimation.Rules) (estimation.Configuration, error) {
	return c.modify(ctx, "update_rules", func(cfg *estimation.Configuration) error {
		if rules.Residential != nil {
			cfg.Rules.Residential = rules.Residential
		}
		if rules.Warehouse != nil {
			cfg.Rules.Warehouse = rules.Warehouse
		}
		return nil
	})
}

func (c *ConfigurationService) UpdateCompanyInfo(ctx context.Context, info estimation.CompanyInfo) (estimation.Configuration, error) {
	return c.modify(ctx, "update_company_info", func(cfg *estimation.Configuration) error {
		cfg.CompanyInfo = &info
		return nil
	})
}

// modify runs a read-modify-write of the whole document inside one transaction.
func (c *ConfigurationService) modify(ctx context.Context, operation string, fn func(cfg *estimation.Configuration) error) (estimation.Configuration, error) {
	tracer := c.logger.WithContext(ctx).Operation(operation).Build()

	ctx, err := c.store.NewTransactionContext(ctx)
	if err != nil {
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	cfg, err := c.Get(ctx)
	if err != nil {
		_, _ = store.Rollback(ctx)
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	if err := fn(&cfg); err != nil {
		_, _ = store.Rollback(ctx)
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	saved, err := c.save(ctx, cfg)
	if err != nil {
		_, _ = store.Rollback(ctx)
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	if _, err := store.Commit(ctx); err != nil {
		tracer.Error(err).Log()
		return estimation.Configuration{}, err
	}

	metrics.IncreaseConfigChangesMetric(operation)
	tracer.Success().WithInt("equipments", len(saved.Equipments)).Log()
	return saved, nil
}

func (c *ConfigurationService) save(ctx context.Context, cfg estimation.Configuration) (estimation.Configuration, error) {
	migrated := estimation.Migrate(cfg)
	if err := estimation.Validate(migrated); err != nil {
		return estimation.Configuration{}, NewErrInvalidConfiguration(err)
	}

	updatedAt := c.now().UTC()
	migrated.UpdatedAt = &updatedAt

	saved, err := c.store.Configuration().Save(ctx, migrated)
	if err != nil {
		return estimation.Configuration{}, fmt.Errorf("failed to save configuration: %w", err)
	}
	return *saved, nil
}
