package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"splitpay/internal/outcome"
)

// TruncateText truncates text to the specified length, adding "..." if truncated
func TruncateText(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.Join(strings.Fields(text), " ")

	if len(text) <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return text[:maxLen]
	}

	return text[:maxLen-3] + "..."
}

// FormatOutcome renders one engine outcome for terminal display.
func FormatOutcome(prefix string, o outcome.Outcome) string {
	switch v := o.(type) {
	case outcome.Success:
		return fmt.Sprintf("%sSUCCESS  %s  status=%s  %s",
			prefix, v.TransactionID, v.StatusCode, TruncateText(v.Message, 60))
	case outcome.OnHold:
		return fmt.Sprintf("%sON HOLD  %s  cause=%s", prefix, v.TransactionID, v.Cause)
	case outcome.Failure:
		return fmt.Sprintf("%sFAILURE  %s  cause=%s  code=%s",
			prefix, v.TransactionID, v.Cause, v.ErrorCode)
	default:
		return fmt.Sprintf("%sUNKNOWN OUTCOME %T", prefix, o)
	}
}

// ConfirmCancellation asks the operator to confirm a cancel/refund before
// it is sent; the partner treats it as irreversible.
func ConfirmCancellation(reference string, fraud bool) (bool, error) {
	label := fmt.Sprintf("Cancel purchase %s", reference)
	if fraud {
		label = fmt.Sprintf("Cancel purchase %s as FRAUD", reference)
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort || err == promptui.ErrEOF || err == promptui.ErrInterrupt {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
