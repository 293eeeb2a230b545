package biz

// Owned is implemented by resources that record who added them.
type Owned interface {
	Owner() string
}

// CanEdit reports whether actor may edit or delete res: the owner or any staff user.
func CanEdit(res Owned, actor Actor) bool {
	if !actor.Authenticated() {
		return false
	}
	return res.Owner() == actor.UserID || actor.IsStaff
}

// CanDeleteReview reports whether actor may delete review. Only the author may;
// staff get no override here.
func CanDeleteReview(review *Review, actor Actor) bool {
	return actor.Authenticated() && review.UserID == actor.UserID
}

func requireAuth(actor Actor) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireStaff(actor Actor) error {
	if err := requireAuth(actor); err != nil {
		return err
	}
	if !actor.IsStaff {
		return ErrStaffOnly
	}
	return nil
}
