package accounts

import (
	"time"

	"github.com/YodaBikarbona/school-book-server/pkg/db/models"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/security"
)

const (
	// codeValidity is how far ahead the stored expiry is set.
	codeValidity = 2 * time.Hour
	// consumeMargin shortens the usable window: a code must still have this
	// much lifetime left when consumed, so users effectively get one hour,
	// which is what the activation mail promises.
	consumeMargin = time.Hour
)

// BeginActivation puts the account into the pending state: fresh 10-char
// code, expiry stamped ahead, is_active dropped. Revoking an unconsumed code
// is the same transition.
func BeginActivation(user *models.User, now time.Time) error {
	code, err := security.NewActivationCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate activation code")
	}
	expiry := now.Add(codeValidity)
	user.ActivationCode = &code
	user.ExpiredActivationCode = &expiry
	user.IsActive = false
	return nil
}

// ConsumeActivation validates the supplied code against the pending state and
// flips the account active, clearing the code so it can never be replayed.
// Each failure leaves the row untouched and is distinct: no pending code,
// wrong code, expired code.
func ConsumeActivation(user *models.User, supplied string, now time.Time) error {
	if user.ActivationCode == nil || user.ExpiredActivationCode == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "No activation is pending!")
	}
	if *user.ActivationCode != supplied {
		return pkgerrors.New(pkgerrors.CodeCodeWrong, "An activation code is wrong!")
	}
	if now.Add(consumeMargin).After(*user.ExpiredActivationCode) {
		return pkgerrors.New(pkgerrors.CodeCodeExpired, "An activation code expired!")
	}
	user.ActivationCode = nil
	user.ExpiredActivationCode = nil
	user.IsActive = true
	return nil
}
