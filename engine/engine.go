package engine

import (
	"log"
	"time"

	"orderdesk/config"
	"orderdesk/messaging"
	"orderdesk/orders"
	"orderdesk/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig   *config.Config
	ConfigPath  string
	DB          *store.DB
	Projections orders.Invalidator
	MsgClient   *messaging.Client
	LogFunc     LogFunc
}

type Engine struct {
	cfg          *config.Config
	configPath   string
	db           *store.DB
	projections  orders.Invalidator
	msgClient    *messaging.Client
	manager      *orders.Manager
	Events       *EventBus
	logFn        LogFunc
	stopChan     chan struct{}
	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:         c.AppConfig,
		configPath:  c.ConfigPath,
		db:          c.DB,
		projections: c.Projections,
		msgClient:   c.MsgClient,
		Events:      NewEventBus(),
		logFn:       logFn,
		stopChan:    make(chan struct{}),
	}
}

func (e *Engine) Start() {
	e.manager = orders.NewManager(
		e.db,
		&managerEmitter{bus: e.Events},
		e.projections,
		e.cfg.Messaging.SourceID,
		e.cfg.Messaging.OrdersTopic,
	)

	e.wireEventHandlers()
	e.checkConnectionStatus()
	go e.connectionHealthLoop()

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	e.logFn("engine: stopped")
}

// DB returns the database handle.
func (e *Engine) DB() *store.DB { return e.db }

// AppConfig returns the app config.
func (e *Engine) AppConfig() *config.Config { return e.cfg }

// ConfigPath returns the config file path.
func (e *Engine) ConfigPath() string { return e.configPath }

// OrderManager returns the order manager.
func (e *Engine) OrderManager() *orders.Manager { return e.manager }

// MsgClient returns the messaging client.
func (e *Engine) MsgClient() *messaging.Client { return e.msgClient }

func (e *Engine) wireEventHandlers() {
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(OrderCreatedEvent)
		e.logFn("engine: order %d created (user %d, vendor %d)", ev.OrderID, ev.UserID, ev.VendorID)
	}, EventOrderCreated)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(OrderStatusChangedEvent)
		e.logFn("engine: order %d %s -> %s (%s)", ev.OrderID, ev.OldStatus, ev.NewStatus, ev.Actor)
	}, EventOrderStatusChanged)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(OrderCancelledEvent)
		e.logFn("engine: order %d cancelled: %s", ev.OrderID, ev.Reason)
	}, EventOrderCancelled)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(OrderCompletedEvent)
		e.logFn("engine: order %d completed", ev.OrderID)
	}, EventOrderCompleted)
}

func (e *Engine) checkConnectionStatus() {
	if e.msgClient == nil {
		return
	}
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
	} else {
		if e.msgConnected {
			e.msgConnected = false
			e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
