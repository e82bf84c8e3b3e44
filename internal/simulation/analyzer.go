package simulation

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// AnchorError: ошибка Anchor-программы, найденная в логах симуляции.
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

// LogAnalysis: то, что удалось извлечь из логов неуспешной симуляции.
type LogAnalysis struct {
	FailedProgram string
	Failure       string
	ProgramLog    string
	Anchor        *AnchorError
}

// AnalyzeLogs ищет в логах программу, завершившуюся с ошибкой, последнее сообщение
// "Program log: Error..." и ошибку Anchor.
func AnalyzeLogs(logs []string) LogAnalysis {
	var analysis LogAnalysis
	for _, line := range logs {
		switch {
		case strings.Contains(line, "AnchorError occurred"):
			anchor := parseAnchorErrorLog(line)
			analysis.Anchor = &anchor
		case strings.HasPrefix(line, "Program log: Error"):
			analysis.ProgramLog = strings.TrimPrefix(line, "Program log: ")
		case strings.HasPrefix(line, "Program ") && strings.Contains(line, " failed: "):
			// "Program <id> failed: <reason>"
			head, reason, _ := strings.Cut(strings.TrimPrefix(line, "Program "), " failed: ")
			analysis.FailedProgram = head
			analysis.Failure = reason
		}
	}
	return analysis
}

// Fields возвращает непустые поля анализа для лога.
func (a LogAnalysis) Fields() []zap.Field {
	var fields []zap.Field
	if a.FailedProgram != "" {
		fields = append(fields, zap.String("failed_program", a.FailedProgram), zap.String("failure", a.Failure))
	}
	if a.ProgramLog != "" {
		fields = append(fields, zap.String("program_log", a.ProgramLog))
	}
	if a.Anchor != nil {
		fields = append(fields,
			zap.Int("anchor_code", a.Anchor.Code),
			zap.String("anchor_name", a.Anchor.Name),
			zap.String("anchor_message", a.Anchor.Msg))
	}
	return fields
}

// parseAnchorErrorLog разбирает строку вида
// "Program log: AnchorError occurred. Error Code: X. Error Number: 101. Error Message: Y."
func parseAnchorErrorLog(line string) AnchorError {
	var result AnchorError
	if _, rest, ok := strings.Cut(line, "Error Code:"); ok {
		name, _, _ := strings.Cut(rest, ".")
		result.Name = strings.TrimSpace(name)
	}
	if _, rest, ok := strings.Cut(line, "Error Number:"); ok {
		number, _, _ := strings.Cut(rest, ".")
		result.Code, _ = strconv.Atoi(strings.TrimSpace(number))
	}
	if _, rest, ok := strings.Cut(line, "Error Message:"); ok {
		result.Msg = strings.TrimSuffix(strings.TrimSpace(rest), ".")
	}
	return result
}
