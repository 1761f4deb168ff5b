package capture

import (
	"errors"
	"fmt"
	"image/png"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/frudas24/deskinput/internal/logging"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	portalDest       = "org.freedesktop.portal.Desktop"
	portalPath       = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	portalScreenshot = "org.freedesktop.portal.Screenshot.Screenshot"
	portalRequest    = "org.freedesktop.portal.Request"
	portalTimeout    = 5 * time.Second
)

var errPortalDenied = errors.New("screenshot portal request denied")

// portalCapture asks xdg-desktop-portal for a non-interactive screenshot of
// the whole session and decodes the resulting PNG.
func portalCapture(index int) (Image, error) {
	if index != 0 {
		return Image{}, fmt.Errorf("display %d of 1: %w", index, ErrDisplayIndex)
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return Image{}, fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	token := "deskinput_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	reqPath := requestPath(conn.Names()[0], token)
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(reqPath),
		dbus.WithMatchInterface(portalRequest),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return Image{}, fmt.Errorf("match portal response: %w", err)
	}
	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)

	opts := map[string]dbus.Variant{
		"handle_token":   dbus.MakeVariant(token),
		"interactive":    dbus.MakeVariant(false),
		"modal":          dbus.MakeVariant(false),
		"include-cursor": dbus.MakeVariant(true),
	}
	var handle dbus.ObjectPath
	obj := conn.Object(portalDest, portalPath)
	if err := obj.Call(portalScreenshot, 0, "", opts).Store(&handle); err != nil {
		return Image{}, fmt.Errorf("%s: %w", portalScreenshot, err)
	}

	timer := time.NewTimer(portalTimeout)
	defer timer.Stop()
	for {
		select {
		case sig, ok := <-signals:
			if !ok {
				return Image{}, errors.New("session bus closed while waiting for screenshot")
			}
			if sig.Name != portalRequest+".Response" || (sig.Path != handle && sig.Path != reqPath) {
				continue
			}
			uri, err := portalResult(sig.Body)
			if err != nil {
				return Image{}, err
			}
			return loadPortalImage(uri)
		case <-timer.C:
			return Image{}, fmt.Errorf("screenshot portal: no response after %s", portalTimeout)
		}
	}
}

// requestPath predicts the Request object path from the unique bus name.
func requestPath(unique, token string) dbus.ObjectPath {
	sender := strings.ReplaceAll(strings.TrimPrefix(unique, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + sender + "/" + token)
}

// portalResult extracts the screenshot uri from a Response signal body.
func portalResult(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", fmt.Errorf("screenshot portal: malformed response")
	}
	code, ok := body[0].(uint32)
	if !ok {
		return "", fmt.Errorf("screenshot portal: malformed response code")
	}
	if code != 0 {
		return "", fmt.Errorf("response %d: %w", code, errPortalDenied)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("screenshot portal: malformed results")
	}
	v, ok := results["uri"]
	if !ok {
		return "", fmt.Errorf("screenshot portal: no uri in results")
	}
	uri, ok := v.Value().(string)
	if !ok || uri == "" {
		return "", fmt.Errorf("screenshot portal: empty uri")
	}
	return uri, nil
}

// uriPath converts a file:// uri into a local path.
func uriPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse screenshot uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("screenshot uri %q is not a file", uri)
	}
	return u.Path, nil
}

// loadPortalImage decodes the PNG the portal wrote and removes the file.
func loadPortalImage(uri string) (Image, error) {
	path, err := uriPath(uri)
	if err != nil {
		return Image{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	src, err := png.Decode(f)
	f.Close()
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		logging.L("capture").Debug("portal screenshot not removed", zap.String("path", path), zap.Error(err))
	}
	return FromImage(src), nil
}
