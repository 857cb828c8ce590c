package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/wizard"
)

const requestFailedMessage = "Request failed. Please try again."

// errNotified tells main to exit non-zero; the message was already shown.
var errNotified = errors.New("notified")

// notify is the error boundary of every command: err becomes one
// user-facing log line and the details go to debug output.
func notify(logger *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, context.Canceled) {
		logger.Info("cancelled")
		return errNotified
	}

	logger.Error(userMessage(err))
	logger.Debug("error details", zap.Error(err))
	return errNotified
}

func userMessage(err error) string {
	var submitErr *wizard.SubmitError
	if errors.As(err, &submitErr) {
		return submitErr.Message
	}
	if api.StatusCode(err) != 0 || api.IsNetwork(err) {
		return api.UserMessage(err, requestFailedMessage)
	}
	return err.Error()
}
