// Package term captures and restores line-discipline settings on a terminal
// descriptor, toggles raw mode, and gets/sets the window size.
package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Terminal owns a file descriptor and a snapshot of its original termios, so
// it can be restored on Close regardless of how the caller exits.
type Terminal struct {
	fd       int
	current  *unix.Termios
	original *unix.Termios
}

// Open captures the current line discipline of fd as both the current and
// original snapshot.
func Open(fd int) (*Terminal, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlGets)
	if err != nil {
		return nil, fmt.Errorf("get termios on fd %d: %w", fd, err)
	}
	original := *t
	return &Terminal{fd: fd, current: t, original: &original}, nil
}

// MakeRaw switches the line discipline to raw mode and applies it with
// TCSAFLUSH.
func (t *Terminal) MakeRaw() error {
	cfmakeraw(t.current)
	if err := unix.IoctlSetTermios(t.fd, ioctlSetsFlush, t.current); err != nil {
		return fmt.Errorf("set raw termios on fd %d: %w", t.fd, err)
	}
	return nil
}

// GetWinSize reads the terminal's window size via TIOCGWINSZ.
func (t *Terminal) GetWinSize() (*unix.Winsize, error) {
	ws, err := unix.IoctlGetWinsize(t.fd, unix.TIOCGWINSZ)
	if err != nil {
		return nil, fmt.Errorf("get window size on fd %d: %w", t.fd, err)
	}
	return ws, nil
}

// SetWinSize writes the terminal's window size via TIOCSWINSZ.
func (t *Terminal) SetWinSize(ws *unix.Winsize) error {
	if err := unix.IoctlSetWinsize(t.fd, unix.TIOCSWINSZ, ws); err != nil {
		return fmt.Errorf("set window size on fd %d: %w", t.fd, err)
	}
	return nil
}

// Close restores the original line discipline with TCSAFLUSH. It must be
// called (typically via defer) on every exit path so the caller's shell is
// never left in raw mode.
func (t *Terminal) Close() error {
	if err := unix.IoctlSetTermios(t.fd, ioctlSetsFlush, t.original); err != nil {
		return fmt.Errorf("restore termios on fd %d: %w", t.fd, err)
	}
	return nil
}

// cfmakeraw mirrors glibc's cfmakeraw(3): disable input translation, parity
// checks, signal generation, and echo, and read one byte at a time.
func cfmakeraw(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}
