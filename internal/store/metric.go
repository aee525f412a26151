package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/ngrok/sqlmw"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opLabel    = "op"
	tableLabel = "table"
)

var (
	verbRegex  = regexp.MustCompile(`^\s*(\w+)`)
	tableRegex = regexp.MustCompile(`(?i)\b(?:from|into|update|table)\s+"?(\w+)"?`)

	dbOpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:      "db_op_duration_milliseconds",
		Help:      "Time spent on a database operation",
		Subsystem: "firesafe",
		Buckets:   []float64{1, 5, 20, 100, 500, 2000},
	}, []string{opLabel, tableLabel})

	dbOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "db_op_total",
		Help:      "Number of database operations",
		Subsystem: "firesafe",
	}, []string{opLabel, tableLabel})
)

func init() {
	prometheus.MustRegister(dbOpLatency, dbOpTotal)
}

// metricInterceptor times statements and transaction boundaries of the
// instrumented postgres driver. Statements are labelled by verb and table so
// configuration writes and project listings show up separately.
type metricInterceptor struct {
	sqlmw.NullInterceptor
}

func (mi *metricInterceptor) ConnBeginTx(ctx context.Context, conn driver.ConnBeginTx, opts driver.TxOptions) (context.Context, driver.Tx, error) {
	defer observe("begin", "", time.Now())
	tx, err := conn.BeginTx(ctx, opts)
	return ctx, tx, err
}

func (mi *metricInterceptor) ConnExecContext(ctx context.Context, conn driver.ExecerContext, query string, args []driver.NamedValue) (driver.Result, error) {
	op, table := statementLabels(query)
	defer observe(op, table, time.Now())
	return conn.ExecContext(ctx, query, args)
}

func (mi *metricInterceptor) ConnQueryContext(ctx context.Context, conn driver.QueryerContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	op, table := statementLabels(query)
	defer observe(op, table, time.Now())
	rows, err := conn.QueryContext(ctx, query, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) StmtExecContext(ctx context.Context, stmt driver.StmtExecContext, query string, args []driver.NamedValue) (driver.Result, error) {
	op, table := statementLabels(query)
	defer observe(op, table, time.Now())
	return stmt.ExecContext(ctx, args)
}

func (mi *metricInterceptor) StmtQueryContext(ctx context.Context, stmt driver.StmtQueryContext, query string, args []driver.NamedValue) (context.Context, driver.Rows, error) {
	op, table := statementLabels(query)
	defer observe(op, table, time.Now())
	rows, err := stmt.QueryContext(ctx, args)
	return ctx, rows, err
}

func (mi *metricInterceptor) TxCommit(ctx context.Context, tx driver.Tx) error {
	defer observe("commit", "", time.Now())
	return tx.Commit()
}

func (mi *metricInterceptor) TxRollback(ctx context.Context, tx driver.Tx) error {
	defer observe("rollback", "", time.Now())
	return tx.Rollback()
}

// statementLabels returns the lower-case verb of query and the first table it names.
func statementLabels(query string) (op, table string) {
	op = "other"
	if m := verbRegex.FindStringSubmatch(query); m != nil {
		op = strings.ToLower(m[1])
	}
	if m := tableRegex.FindStringSubmatch(query); m != nil {
		table = strings.ToLower(m[1])
	}
	return op, table
}

func observe(op, table string, start time.Time) {
	labels := prometheus.Labels{opLabel: op, tableLabel: table}
	dbOpTotal.With(labels).Inc()
	dbOpLatency.With(labels).Observe(float64(time.Since(start).Microseconds()) / 1000)
}
