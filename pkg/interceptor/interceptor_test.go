package interceptor

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type recordingInterceptor struct {
	name      string
	before    *[]string
	after     *[]string
	beforeErr error
}

func (r *recordingInterceptor) BeforeSave(op Operation, tx *gorm.DB) error {
	*r.before = append(*r.before, r.name)
	return r.beforeErr
}

func (r *recordingInterceptor) AfterSave(op Operation, tx *gorm.DB) {
	*r.after = append(*r.after, r.name)
}

func newTestTx() *gorm.DB {
	return &gorm.DB{
		Config:    &gorm.Config{},
		Statement: &gorm.Statement{Table: "widgets"},
	}
}

func TestPipelineRunsInRegistrationOrder(t *testing.T) {
	var before, after []string
	p := NewPipeline(
		&recordingInterceptor{name: "first", before: &before, after: &after},
		&recordingInterceptor{name: "second", before: &before, after: &after},
	)

	tx := newTestTx()
	p.runBefore(OpCreate, tx)
	p.runAfter(OpCreate, tx)

	want := []string{"first", "second"}
	for i, name := range want {
		if before[i] != name || after[i] != name {
			t.Fatalf("expected order %v, got before=%v after=%v", want, before, after)
		}
	}
}

func TestPipelineBeforeErrorAborts(t *testing.T) {
	var before, after []string
	boom := errors.New("rejected")
	p := NewPipeline(
		&recordingInterceptor{name: "first", before: &before, after: &after, beforeErr: boom},
		&recordingInterceptor{name: "second", before: &before, after: &after},
	)

	tx := newTestTx()
	p.runBefore(OpCreate, tx)

	if !errors.Is(tx.Error, boom) {
		t.Errorf("expected error recorded on the statement, got %v", tx.Error)
	}
	if len(before) != 1 {
		t.Errorf("later interceptors must not run after a rejection, got %v", before)
	}
}

func TestPipelineSkipsBeforeOnFailedStatement(t *testing.T) {
	var before, after []string
	p := NewPipeline(&recordingInterceptor{name: "only", before: &before, after: &after})

	tx := newTestTx()
	tx.Error = errors.New("already failed")
	p.runBefore(OpUpdate, tx)

	if len(before) != 0 {
		t.Errorf("interceptors must not run on an already failed statement, got %v", before)
	}
}

func TestPipelineAfterRunsForAll(t *testing.T) {
	var before, after []string
	p := NewPipeline(
		&recordingInterceptor{name: "first", before: &before, after: &after},
		&recordingInterceptor{name: "second", before: &before, after: &after},
	)

	tx := newTestTx()
	tx.Error = errors.New("statement failed")
	p.runAfter(OpDelete, tx)

	if len(after) != 2 {
		t.Errorf("after hooks must run even on failure, got %v", after)
	}
}

func TestTouchInterceptorSkipsDelete(t *testing.T) {
	touch := &TouchInterceptor{Now: func() time.Time { return time.Unix(0, 0) }}
	tx := newTestTx()

	if err := touch.BeforeSave(OpDelete, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTouchInterceptorWithoutSchemaIsNoOp(t *testing.T) {
	touch := &TouchInterceptor{}
	tx := newTestTx()

	// A statement without a parsed model has no schema to stamp.
	if err := touch.BeforeSave(OpUpdate, tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type recordingLogger struct {
	infos []string
	warns []string
}

func (l *recordingLogger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func TestAuditLogInterceptor(t *testing.T) {
	log := &recordingLogger{}
	audit := NewAuditLogInterceptor(log)

	tx := newTestTx()
	tx.RowsAffected = 2
	audit.AfterSave(OpUpdate, tx)

	if len(log.infos) != 1 || len(log.warns) != 0 {
		t.Errorf("expected one info log for a successful mutation, got infos=%v warns=%v", log.infos, log.warns)
	}

	tx.Error = errors.New("constraint violated")
	audit.AfterSave(OpUpdate, tx)
	if len(log.warns) != 1 {
		t.Errorf("expected a warn log for a failed mutation, got %v", log.warns)
	}
}
