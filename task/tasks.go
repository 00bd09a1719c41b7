package task

import (
	"context"
	"log/slog"

	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/database"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	PrefetchTask    func()
	MaintenanceTask func()
}

func NewTasks(
	db *database.Database,
	composer *pricing.Composer,
	subscribers []Subscriber,
	cnfg *config.AppConfig,
) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		PrefetchTask:    NewPrefetchTask(logger.With(slog.String("task", "prefetch")), composer, subscribers, cnfg.Pricing),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc(t.cnfg.EnergyPrice.GetRunAt(), t.PrefetchTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc("30 2 * * *", t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
