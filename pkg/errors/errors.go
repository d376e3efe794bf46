package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrAccountInactive    = fmt.Errorf("учётная запись деактивирована")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// HttpError — основная ошибка уровня приложения.
// Code и Message уходят клиенту, Err и Context остаются в логах.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// Фабрики под таксономию доменных ошибок. Коды стабильны:
// клиенты строят retry-политику по коду, а не по тексту сообщения.

func NewValidationError(message string, err error) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, err, nil)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound, nil)
}

func NewForbiddenError(message string) *HttpError {
	return NewHttpError(http.StatusForbidden, message, ErrForbidden, nil)
}

func NewConflictError(message string, err error) *HttpError {
	return NewHttpError(http.StatusConflict, message, err, nil)
}

// NewTimeoutError — исход операции неизвестен: транзакция могла успеть
// закоммититься на стороне БД. Клиент обязан перечитать состояние,
// а не слепо повторять запрос.
func NewTimeoutError(message string, err error) *HttpError {
	return NewHttpError(http.StatusRequestTimeout, message, err, nil)
}

func NewInternalError(err error) *HttpError {
	return NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
}

// InvalidTransitionError — запрещённый переход жизненного цикла заявки.
// Несёт оба статуса: из какого состояния и в какое пытались перейти.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("недопустимый переход статуса: %s -> %s", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) *HttpError {
	inner := &InvalidTransitionError{From: from, To: to}
	return &HttpError{
		Code:    http.StatusBadRequest,
		Message: inner.Error(),
		Err:     inner,
		Context: map[string]interface{}{"from": from, "to": to},
	}
}

// NewInvalidStateError — заявка существует, но её текущая стадия
// не допускает запрошенную операцию. Повторять такой запрос бессмысленно,
// нужно перечитать заявку.
func NewInvalidStateError(message string, current string) *HttpError {
	return &HttpError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     fmt.Errorf("текущий статус: %s", current),
		Context: map[string]interface{}{"status": current},
	}
}
