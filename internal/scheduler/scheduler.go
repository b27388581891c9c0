package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/logger"
	"FibSentinel/internal/metrics"
	"FibSentinel/internal/model"
	"FibSentinel/internal/notifier"
	"FibSentinel/internal/strategy"
)

// symbolReplyLimit caps the number of rows in a /symbols reply.
const symbolReplyLimit = 20

const helpText = "Available commands:\n" +
	"• /analyze [SYMBOL]: Fibonacci structure report (default symbol if omitted)\n" +
	"• /symbols QUERY: search the symbol list (NSE or BSE lists an exchange)\n" +
	"• /help: this message"

// Notifier delivers report text.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the daily analysis and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Symbols   *collector.SymbolList
	Symbol    string
	Options   strategy.Options
	Ctx       context.Context
	log       *logger.Logger
}

// NewScheduler creates a new Scheduler. symbols may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, symbols *collector.SymbolList,
	symbol string, opts strategy.Options, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Symbols:   symbols,
		Symbol:    symbol,
		Options:   opts,
		Ctx:       ctx,
		log:       log.With("component", "scheduler"),
	}
}

// RegisterAll registers the daily analysis task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Infof("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Infof("scheduler stopped")
}

// RunNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	s.log.Infof("running daily analysis for %s", s.Symbol)
	report, err := s.Report(s.Ctx, s.Symbol)
	if err != nil {
		s.log.Errorf("daily analysis: %v", err)
		s.trySend(failureReply("Daily analysis", s.Symbol, err))
		return
	}
	s.trySend(report)
}

// Report runs collect → analyze → format for one symbol.
func (s *Scheduler) Report(ctx context.Context, symbol string) (string, error) {
	start := time.Now()
	a, err := s.analyze(ctx, symbol)

	var tradeType string
	if a != nil {
		tradeType = string(a.TradeReport.Type)
	}
	metrics.RecordAnalysis(symbol, time.Since(start), tradeType, err)
	if err != nil {
		return "", err
	}
	return notifier.FormatAnalysisReport(symbol, a, s.Options.Currency), nil
}

func (s *Scheduler) analyze(ctx context.Context, symbol string) (*model.Analysis, error) {
	series, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	a := strategy.Analyze(series.Candles, series.CurrentPrice, s.Options)
	if len(a.Issues) > 0 {
		s.log.Warnf("analysis of %s completed with issues %v", symbol, a.Issues)
	}
	return a, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i]
	}
	args := fields[1:]

	switch name {
	case "/analyze":
		symbol := s.Symbol
		if len(args) > 0 {
			symbol = strings.ToUpper(args[0])
		}
		report, err := s.Report(ctx, symbol)
		if err != nil {
			s.log.Errorf("analyze %s: %v", symbol, err)
			return failureReply("Analysis", symbol, err)
		}
		return report
	case "/symbols":
		return s.symbolsReply(strings.Join(args, " "))
	default:
		return helpText
	}
}

func (s *Scheduler) symbolsReply(query string) string {
	if s.Symbols == nil {
		return "Symbol list is not configured."
	}
	if query == "" {
		return fmt.Sprintf("%d NSE and %d BSE symbols available. Usage: /symbols QUERY",
			len(s.Symbols.ForExchange("NSE")), len(s.Symbols.ForExchange("BSE")))
	}
	switch strings.ToUpper(query) {
	case "NSE", "BSE":
		return notifier.FormatSymbols(query, s.Symbols.ForExchange(query), symbolReplyLimit)
	}
	return notifier.FormatSymbols(query, s.Symbols.Search(query), symbolReplyLimit)
}

// failureReply is sent in HTML parse mode; symbol comes from the user and
// err may quote a provider response body.
func failureReply(what, symbol string, err error) string {
	return fmt.Sprintf("❌ %s for %s failed: %s", what, html.EscapeString(symbol), html.EscapeString(err.Error()))
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Errorf("send notification: %v", err)
	}
}
