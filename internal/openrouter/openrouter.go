package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openrouter "github.com/revrost/go-openrouter"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/models/domain"
	"eventsCrawler/internal/models/dto"
	"eventsCrawler/internal/utils/logger/sl"
)

const (
	// retryCount определяет количество попыток повторного запроса при ошибках.
	retryCount int = 5
	// retryDuration задаёт интервал между попытками повторного запроса.
	retryDuration time.Duration = 5 * time.Second
)

const systemRolePrompt = "You will extract and summarize data in JSON format from the content I sent you."

// extractionPreamble — фиксированный протокол извлечения. Оракулу
// предписано вернуть все поля строками, пустую строку для ненайденных,
// ровно 5 пунктов check_list, цену "0" по умолчанию и source из префикса
// содержимого.
const extractionPreamble = `summarize content in JSON format like this
{
    "events": {
        "1": {
          "name": "",
          "start_time": "",
          "end_time": "",
          "location": "",
          "description": "",
          "check_list": [],
          "price": "0",
          "tags": [],
          "source": ""
        },
        "2": {
          "name": "",
          "start_time": "",
          "end_time": "",
          "location": "",
          "description": "",
          "check_list": [],
          "price": "0",
          "tags": [],
          "source": ""
        }
    }
}
ALL FIELD FORMAT should be in STRING
keep going with keys "3", "4", ... if there are more events in the same page
leave all fields as EMPTY STRING if not found
check_list is a list with 5 elements, imagine 5 things we should prepare for based on the description
default price is "0", leave it as "0" if not found, price should be STRING
try to get the location as detailed as possible
location should be STRING ONLY
tags are related labels you summarized based on the content
source will always be the source_url I send in the content
all time are in unix timestamp format
CONTENT TO SUMMARIZE AND TO EXTRACT: `

// Client — клиент оракула извлечения поверх OpenRouter API.
type Client struct {
	logger *slog.Logger
	cfg    *config.Config
	client *openrouter.Client
}

func NewClient(logger *slog.Logger, cfg *config.Config) *Client {
	op := "Openrouter.NewClient()"
	log := logger.With(
		slog.String("op", op),
	)

	client := openrouter.NewClient(
		cfg.OracleConfig.AIApiToken,
	)

	log.Info("Creating openrouter client")

	return &Client{
		logger: logger,
		cfg:    cfg,
		client: client,
	}
}

// Parse отправляет сырой текст detail-страницы оракулу и разбирает
// структурный ответ. Ответ недоверенный: либо валидная схема событий,
// либо ошибка — нетипизированные данные дальше не уходят.
func (c *Client) Parse(ctx context.Context, content domain.RawContent) (dto.EventsPayload, error) {
	op := "Openrouter.Parse()"
	log := c.logger.With(
		slog.String("op", op),
	)

	// Собственный бюджет оракула поверх дедлайна вызывающего
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OracleConfig.GetTimeout())
	defer cancel()

	var resp openrouter.ChatCompletionResponse
	var err error

	for retry := range retryCount {
		var r openrouter.ChatCompletionResponse
		var e error

		r, e = c.client.CreateChatCompletion(
			ctx,
			openrouter.ChatCompletionRequest{
				Model:       c.cfg.OracleConfig.ModelName,
				MaxTokens:   c.cfg.OracleConfig.MaxTokens,
				Temperature: c.cfg.OracleConfig.Temperature,
				Messages: []openrouter.ChatCompletionMessage{
					openrouter.SystemMessage(systemRolePrompt),
					openrouter.UserMessage(extractionPreamble + content.String()),
				},
				ResponseFormat: &openrouter.ChatCompletionResponseFormat{
					Type: "json_object",
				},
			},
		)

		if e != nil && (isRateLimitError(e) || isEOFError(e)) {
			err = e
			log.Warn("oracle completion error, retrying", sl.Err(e), slog.Int("retry", retry))
			select {
			case <-time.After(retryDuration):
			case <-ctx.Done():
				return dto.EventsPayload{}, fmt.Errorf("%s: %w", op, ctx.Err())
			}
			continue
		}

		resp = r
		err = e
		break
	}

	if err != nil {
		return dto.EventsPayload{}, fmt.Errorf("%s: completion failed: %w", op, err)
	}

	if len(resp.Choices) == 0 {
		return dto.EventsPayload{}, fmt.Errorf("%s: empty oracle response", op)
	}

	// Очищаем ответ от markdown-разметки (```json ... ```)
	cleanedResponse := cleanJSONResponse(resp.Choices[0].Message.Content.Text)

	var payload dto.EventsPayload
	if err := json.Unmarshal([]byte(cleanedResponse), &payload); err != nil {
		log.Error("error unmarshal response", sl.Err(err), slog.String("response", cleanedResponse))
		return dto.EventsPayload{}, fmt.Errorf("%s: unmarshal error: %w", op, err)
	}

	if payload.Events == nil {
		return dto.EventsPayload{}, fmt.Errorf("%s: response has no events mapping", op)
	}

	log.Debug("oracle response parsed", slog.Int("events", len(payload.Events)))

	return payload, nil
}

// isRateLimitError проверяет, связана ли ошибка с превышением лимита запросов (HTTP 429).
// Временное решение по анализу строки ошибки — менее надёжно, чем проверка кода.
func isRateLimitError(err error) bool {
	if err != nil {
		return strings.Contains(err.Error(), "429")
	}
	return false
}

// isEOFError проверяет, связана ли ошибка с разрывом соединения (EOF).
// Используется для повтора запроса.
func isEOFError(err error) bool {
	if err != nil {
		return strings.Contains(err.Error(), "EOF")
	}
	return false
}

// cleanJSONResponse очищает ответ оракула от markdown-разметки и лишнего
// текста: некоторые модели оборачивают JSON в ```json ... ``` и дописывают
// текст после объекта.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if after, ok := strings.CutPrefix(response, "```json"); ok {
		response = after
	} else if after0, ok0 := strings.CutPrefix(response, "```"); ok0 {
		response = after0
	}

	response = strings.TrimSpace(response)

	// Находим JSON объект: от первой { до соответствующей }
	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return response
	}

	depth := 0
	endIdx := -1
	inString := false
	escaped := false

	for i := startIdx; i < len(response); i++ {
		c := response[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				endIdx = i
				break
			}
		}
	}

	if endIdx != -1 {
		return response[startIdx : endIdx+1]
	}

	return response
}
