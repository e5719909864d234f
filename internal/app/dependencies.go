package app

import (
	"github.com/manatly/manat/internal/config"
	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/category"
	"github.com/manatly/manat/pkg/ledger"
	"github.com/manatly/manat/pkg/notify"
	"github.com/manatly/manat/pkg/profile"
	"github.com/manatly/manat/pkg/reminder"
	"github.com/manatly/manat/pkg/snapshot"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus        *event_bus.EventBus
	Clock      utils.Clock
	StateStore *profile.StateStore
	Notifier   *notify.Adapter

	ProfileService profile.Service
	ProfileHandler *profile.Handler

	CategoryService category.Service
	CategoryHandler *category.Handler

	LedgerService ledger.Service
	LedgerHandler *ledger.Handler

	ReminderService reminder.Service
	ReminderHandler *reminder.Handler
}

// BuildDependencies initializes and wires all application services and
// handlers. Subscription order on the bus matters: the persister writes the
// snapshot out before the notification adapter reacts to it.
func BuildDependencies(store snapshot.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}
	deps.StateStore = profile.NewStateStore(store, deps.Bus)

	startPersister(deps.Bus, store)

	if cfg.Notifications.Enabled {
		deps.Notifier = notify.NewAdapter(notify.NewLogScheduler(), deps.Clock)
		deps.Notifier.Subscribe(deps.Bus)
	}

	deps.ProfileService = profile.NewService(deps.StateStore, deps.Clock)
	deps.ProfileHandler = profile.NewHandler(deps.ProfileService)

	deps.CategoryService = category.NewService(deps.StateStore)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.LedgerService = ledger.NewService(deps.StateStore, deps.Clock)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService)

	deps.ReminderService = reminder.NewService(deps.StateStore, deps.Bus, deps.Clock)
	deps.ReminderHandler = reminder.NewHandler(deps.ReminderService)

	return deps
}
