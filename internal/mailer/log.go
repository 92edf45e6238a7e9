package mailer

import "go.uber.org/zap"

// LogClient renders mail and logs it instead of sending. Used when no mail
// credentials are configured.
type LogClient struct {
	logger *zap.SugaredLogger
}

func NewLogClient(logger *zap.SugaredLogger) LogClient {
	return LogClient{logger: logger}
}

func (l LogClient) Send(templateFile, toName, toEmail string, data any) (int, error) {
	subject, _, err := render(templateFile, data)
	if err != nil {
		return -1, err
	}
	l.logger.Infow("mail not sent, no mail credentials", "template", templateFile, "to", toEmail, "subject", subject)
	return 200, nil
}
