package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// UpdateSender отправляет сообщения в UI без блокировки: если канал заполнен,
// сообщение отбрасывается и учитывается в статистике.
type UpdateSender struct {
	msgChan        chan tea.Msg
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
}

func NewUpdateSender(msgChan chan tea.Msg, logger *zap.Logger) *UpdateSender {
	us := &UpdateSender{
		msgChan:       msgChan,
		logger:        logger,
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}
	go us.logStats()
	return us
}

// SendUpdate отправляет сообщение, не дожидаясь получателя.
func (us *UpdateSender) SendUpdate(msg tea.Msg) {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
	default:
		atomic.AddUint64(&us.droppedUpdates, 1)
	}
}

// Updates возвращает канал, из которого читает модель.
func (us *UpdateSender) Updates() <-chan tea.Msg {
	return us.msgChan
}

func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	return atomic.LoadUint64(&us.sentUpdates), atomic.LoadUint64(&us.droppedUpdates)
}

func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close останавливает фоновую статистику.
func (us *UpdateSender) Close() {
	close(us.stopStats)
}
