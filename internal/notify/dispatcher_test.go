package notify

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestDispatcherRunsQueuedSends(t *testing.T) {
	d := NewDispatcher(8)
	d.Start()

	var ran int32
	for i := 0; i < 5; i++ {
		d.Enqueue("test send", func() error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}

	d.Close()

	if got := atomic.LoadInt32(&ran); got != 5 {
		t.Fatalf("expected 5 sends to run, got %d", got)
	}
}

func TestDispatcherSurvivesFailingSend(t *testing.T) {
	d := NewDispatcher(8)
	d.Start()

	var ran int32
	d.Enqueue("failing send", func() error {
		return errors.New("gateway down")
	})
	d.Enqueue("following send", func() error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	d.Close()

	if atomic.LoadInt32(&ran) != 1 {
		t.Fatal("expected a failed send not to stop the worker")
	}
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	d := NewDispatcher(8)
	d.Start()
	d.Close()

	// Must not panic on a closed queue.
	d.Enqueue("late send", func() error { return nil })
	d.Close()
}

func TestMockSendersNeverFail(t *testing.T) {
	mailer := NewMailer(mockSMTPConfig())
	if err := mailer.Send("a@x.com", "subject", "<p>hi</p>"); err != nil {
		t.Fatalf("mock mailer returned error: %v", err)
	}

	sms := NewSMSClient(mockSMSConfig())
	if err := sms.Send("+9771234567", "code 123456"); err != nil {
		t.Fatalf("mock SMS sender returned error: %v", err)
	}
}
