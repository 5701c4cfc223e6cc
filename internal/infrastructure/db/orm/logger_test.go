package orm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func trace(l gormlogger.Interface, elapsed time.Duration, err error) {
	l.Trace(context.Background(), time.Now().Add(-elapsed), func() (string, int64) {
		return `SELECT * FROM "customer"`, 1
	}, err)
}

func TestLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    string
	}{
		{"failure", gormlogger.Warn, 0, errors.New("boom"), `"level":"error"`},
		{"not found is quiet", gormlogger.Warn, 0, gorm.ErrRecordNotFound, ""},
		{"slow", gormlogger.Warn, time.Second, nil, `"level":"warn"`},
		{"fast at warn is quiet", gormlogger.Warn, 0, nil, ""},
		{"fast at info", gormlogger.Info, 0, nil, `"level":"debug"`},
		{"silent", gormlogger.Silent, 0, errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(zerolog.New(&buf), 200*time.Millisecond).LogMode(tt.level)

			trace(l, tt.elapsed, tt.err)

			if tt.want == "" {
				if buf.Len() != 0 {
					t.Fatalf("expected no output, got %s", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.want) || !strings.Contains(buf.String(), "customer") {
				t.Fatalf("expected %s with sql, got %s", tt.want, buf.String())
			}
		})
	}
}
