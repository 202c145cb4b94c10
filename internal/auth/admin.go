// auth проверяет общий ключ администратора, которым подписываются операции записи.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoKey — не задан ни ключ, ни его хэш.
var ErrNoKey = errors.New("admin key is not configured")

// Verifier сравнивает предъявленный ключ с настроенным.
//
// Режимы:
//   - plain: ключ хранится как есть, сравнение за постоянное время;
//   - hash: хранится bcrypt-хэш ключа.
type Verifier struct {
	key  []byte
	hash []byte
}

// NewVerifier создаёт Verifier. Если задан hash, используется он, иначе key.
func NewVerifier(key, hash string) (*Verifier, error) {
	switch {
	case hash != "":
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &Verifier{hash: []byte(hash)}, nil
	case key != "":
		return &Verifier{key: []byte(key)}, nil
	default:
		return nil, ErrNoKey
	}
}

// Verify сообщает, совпадает ли presented с ключом администратора.
// Пустой ключ не проходит никогда.
func (v *Verifier) Verify(presented string) bool {
	if presented == "" {
		return false
	}

	if v.hash != nil {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(presented)) == nil
	}

	return subtle.ConstantTimeCompare(v.key, []byte(presented)) == 1
}

// Mode возвращает режим проверки для логов: "hash" или "plain".
func (v *Verifier) Mode() string {
	if v.hash != nil {
		return "hash"
	}
	return "plain"
}
