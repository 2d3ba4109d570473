package shell

import (
	"context"
	"fmt"
	"log/slog"
)

// AccessibilityPrompt is asked once per reported service that has not been
// marked as harmless.
const AccessibilityPrompt = "%s is enabled. Accessibility services can interfere with the game's keyboard and touch input.\n\nWarn about this service again next time?"

// warnAccessibility asks about each configured accessibility service the
// user has not already dismissed. Answering No records the service as a
// false positive so it is never reported again. With no one to answer, the
// warning stays.
func warnAccessibility(ctx context.Context, d Deps) error {
	for _, svc := range d.Config.Accessibility.Services {
		if d.Prefs.IsFalsePositive(svc) {
			continue
		}
		d.Logger.Info("accessibility service enabled", slog.String("service", svc))

		if d.Bridge.AskYesNoOr(ctx, fmt.Sprintf(AccessibilityPrompt, svc), true) {
			continue
		}
		if err := d.Prefs.AddFalsePositive(svc); err != nil {
			return err
		}
	}
	return nil
}
