// Package logging builds the process-wide structured logger.
// Every entry is a single JSON object per line with a "ts" timestamp rendered
// in the configured location.
package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to w with timestamps in loc.
func New(w io.Writer, loc *time.Location) *logrus.Logger {
	if loc == nil {
		loc = time.UTC
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&locationFormatter{
		loc: loc,
		next: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
				logrus.FieldKeyMsg:  "msg",
			},
		},
	})
	return l
}

// locationFormatter shifts the entry time into loc before delegating.
type locationFormatter struct {
	loc  *time.Location
	next logrus.Formatter
}

func (f *locationFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.In(f.loc)
	return f.next.Format(e)
}
