package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/gateway"
)

// fail prints a user-facing message for err and returns err unchanged.
// Gateway failures go through the classifier; anything else (input
// validation, local storage) is printed as is.
func (a *App) fail(ctx context.Context, err error) error {
	if _, ok := gateway.AsError(err); ok {
		a.log.Debug(ctx, "request failed", "error", err)
		if errors.Is(err, gateway.ErrUnavailable) {
			a.setConnectivity(ModeOffline)
		}
		if errors.Is(err, gateway.ErrUnauthorized) {
			a.userName = ""
		}
		fmt.Fprintln(a.out, gateway.MessageFor(err))
		return err
	}
	fmt.Fprintln(a.out, "Error:", err.Error())
	return err
}

func parseGrams(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "g"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "g"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
