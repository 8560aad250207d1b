package authz

import (
	"github.com/YodaBikarbona/school-book-server/pkg/enums"
	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
)

const forbiddenMessage = "Forbidden permission!"

// ErrForbidden builds the uniform 403 policy failure.
func ErrForbidden() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMessage)
}

// CanListAccounts allows Administrators, and Professors presenting a bound
// token. Professors see a role-filtered slice, see VisibleRoles.
func CanListAccounts(p Principal) error {
	if p.IsAdministrator() {
		return nil
	}
	if p.Role == enums.RoleProfessor && p.TokenBound {
		return nil
	}
	return ErrForbidden()
}

// VisibleRoles returns the role names a caller's listings may include.
// Empty means unrestricted.
func VisibleRoles(p Principal) []string {
	if p.IsAdministrator() {
		return nil
	}
	return []string{
		string(enums.RoleProfessor),
		string(enums.RoleStudent),
		string(enums.RoleParent),
	}
}

// CanViewAccount allows Administrators, and bound Professor or Parent
// tokens. Which rows those callers may actually reach is decided by the
// scoped lookup itself.
func CanViewAccount(p Principal) error {
	if p.IsAdministrator() {
		return nil
	}
	if (p.Role == enums.RoleProfessor || p.Role == enums.RoleParent) && p.TokenBound {
		return nil
	}
	return ErrForbidden()
}

// CanManageAccount guards state changes on a target account: delete,
// activate, deactivate. Administrators act on anyone; everyone else only on
// their own row, and only with a bound token.
func CanManageAccount(p Principal, targetUserID int64) error {
	if p.IsAdministrator() {
		return nil
	}
	if p.TokenBound && p.UserID() == targetUserID {
		return nil
	}
	return ErrForbidden()
}

// RequireAdministrator guards the admin-only account and reference-data
// surface.
func RequireAdministrator(p Principal) error {
	if p.IsAdministrator() {
		return nil
	}
	return ErrForbidden()
}

// RequireParent guards the parent-scoped listings (children, events).
func RequireParent(p Principal) error {
	if p.Role == enums.RoleParent && p.TokenBound {
		return nil
	}
	return ErrForbidden()
}

// CanReadStudentRecords guards subject, grade and absence reads. Parents are
// further narrowed to their own children by the scoped queries.
func CanReadStudentRecords(p Principal) error {
	switch p.Role {
	case enums.RoleAdministrator:
		return nil
	case enums.RoleProfessor, enums.RoleParent:
		if p.TokenBound {
			return nil
		}
	}
	return ErrForbidden()
}

// CanRecordForProfessor guards grade, absence and event writes: the caller
// must be the professor of record, or an Administrator.
func CanRecordForProfessor(p Principal, professorID int64) error {
	if p.IsAdministrator() {
		return nil
	}
	if p.Role == enums.RoleProfessor && p.TokenBound && p.UserID() == professorID {
		return nil
	}
	return ErrForbidden()
}
