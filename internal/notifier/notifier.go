// Package notifier sends reminder toasts through the stampet tray app,
// which listens on a loopback webhook advertised in its lockfile.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/stampet/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray app owns the lockfile.
var ErrTrayNotRunning = errors.New("stampet-tray is not running")

// Message is the JSON body the tray webhook accepts.
type Message struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// endpoint is the parsed "port|pid|secret" lockfile.
type endpoint struct {
	Port   int
	PID    int
	Secret string
}

func (e endpoint) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(e.Port)
}

func parseLockfile(data []byte) (endpoint, error) {
	fields := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(fields) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}
	var e endpoint
	rawPort := strings.TrimSpace(fields[0])
	if rawPort == "" {
		return e, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return e, fmt.Errorf("invalid port number in lockfile: %q", rawPort)
	}
	if port < 1 || port > 65535 {
		return e, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return e, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(fields[2])
	if secret == "" {
		return e, errors.New("secret in lockfile is empty")
	}
	return endpoint{Port: port, PID: pid, Secret: secret}, nil
}

// TrayConfigDir is where the tray app keeps its lockfile. The tray's own
// settings.json may move it with "lockfile_dir".
func TrayConfigDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &doc) == nil && doc.Settings.LockfileDir != "" {
		return doc.Settings.LockfileDir, nil
	}
	return dir, nil
}

// discover reads the lockfile and checks that its PID is a live tray process.
func discover(lockfilePath string) (endpoint, error) {
	data, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}
	e, err := parseLockfile(data)
	if err != nil {
		return endpoint{}, err
	}
	proc, err := findProcessFunc(e.PID)
	if err != nil || proc == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if exe := proc.Executable(); !strings.HasPrefix(exe, constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", e.PID, constants.TrayExecutablePrefix, exe)
	}
	return e, nil
}

// Notifier posts messages to the tray webhook.
type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify shows text as a toast. It fails with ErrTrayNotRunning when the
// tray app is not up.
func (n *Notifier) Notify(text string) error {
	return n.NotifyContext(context.Background(), text)
}

func (n *Notifier) NotifyContext(ctx context.Context, text string) error {
	dir, err := TrayConfigDir()
	if err != nil {
		return err
	}
	e, err := discover(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	return n.post(ctx, e, Message{Text: text, DurationMs: constants.NotificationDurationMs})
}

func (n *Notifier) post(ctx context.Context, e endpoint, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.TraySecretHeader, e.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("tray webhook unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
