package ioconn

import (
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestPumpCopiesPtyOutputToParent(t *testing.T) {
	parentInR, parentInW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer parentInR.Close()
	defer parentInW.Close()

	parentOutR, parentOutW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer parentOutR.Close()
	defer parentOutW.Close()

	ptyR, ptyW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer ptyR.Close()
	defer ptyW.Close()

	// The read end of a plain pipe stands in for the pty master: reads from
	// it represent child output. A pipe is unidirectional, so only the
	// child-output -> parentOut direction is exercised here.
	conn, err := New(int(parentInR.Fd()), int(parentOutW.Fd()), int(ptyR.Fd()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer conn.Stop()

	if _, err := ptyW.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 5)
	if err := readWithTimeout(int(parentOutR.Fd()), buf, time.Second); err != nil {
		t.Fatalf("expected pty->parent copy: %v", err)
	}
	if string(buf) != "hello" {
		t.Fatalf("got %q, want %q", buf, "hello")
	}
}

func readWithTimeout(fd int, buf []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	total := 0
	for total < len(buf) && time.Now().Before(deadline) {
		n, err := unix.Read(fd, buf[total:])
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}
		total += n
	}
	return nil
}

func TestStopIsIdempotent(t *testing.T) {
	parentInR, _, _ := os.Pipe()
	_, parentOutW, _ := os.Pipe()
	ptyR, _, _ := os.Pipe()

	conn, err := New(int(parentInR.Fd()), int(parentOutW.Fd()), int(ptyR.Fd()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := conn.Stop(); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	if err := conn.Stop(); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}
