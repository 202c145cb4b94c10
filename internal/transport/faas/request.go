package faas

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/news-function/internal/errors"
)

const (
	headerAdminKey  = "X-Admin-Key"
	headerRequestID = "X-Request-Id"
)

// header ищет заголовок без учёта регистра имени.
// Порядок: точное имя в нижнем регистре, каноническое имя, затем любое совпадение
// без учёта регистра (из нескольких берётся лексикографически меньший ключ).
// Сначала смотрим в Headers, затем в MultiValueHeaders.
func header(req events.APIGatewayProxyRequest, name string) string {
	if v, ok := lookupHeader(req.Headers, name); ok {
		return v
	}

	multi := make(map[string]string, len(req.MultiValueHeaders))
	for k, vs := range req.MultiValueHeaders {
		if len(vs) > 0 {
			multi[k] = vs[0]
		}
	}
	v, _ := lookupHeader(multi, name)

	return v
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[strings.ToLower(name)]; ok {
		return v, true
	}
	if v, ok := headers[textproto.CanonicalMIMEHeaderKey(name)]; ok {
		return v, true
	}

	var found string
	for k := range headers {
		if strings.EqualFold(k, name) && (found == "" || k < found) {
			found = k
		}
	}
	if found == "" {
		return "", false
	}

	return headers[found], true
}

// requestID берёт id из контекста шлюза, заголовка X-Request-Id или генерирует новый.
func requestID(req events.APIGatewayProxyRequest) string {
	if id := req.RequestContext.RequestID; id != "" {
		return id
	}
	if id := header(req, headerRequestID); id != "" {
		return id
	}

	return uuid.NewString()
}

// queryID разбирает параметр ?id=.
// ok == false, если параметр не передан или пуст.
func queryID(req events.APIGatewayProxyRequest) (id int64, ok bool, err error) {
	raw := strings.TrimSpace(req.QueryStringParameters["id"])
	if raw == "" {
		return 0, false, nil
	}

	id, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, apierrors.ErrInvalidID
	}

	return id, true, nil
}

// decodeBody разбирает JSON-тело запроса в dst.
// Пустое тело эквивалентно {}; тело в base64 сначала декодируется.
func decodeBody(req events.APIGatewayProxyRequest, dst any) error {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return apierrors.ErrInvalidJSON
		}
		body = decoded
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, dst); err != nil {
		if errors.Is(err, apierrors.ErrInvalidID) {
			return apierrors.ErrInvalidID
		}
		return apierrors.ErrInvalidJSON
	}

	return nil
}
