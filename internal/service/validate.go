package service

import "regexp"

// emailRx is the basic syntactic check applied before any side effect; it is
// deliberately loose, the mail transport has the final say.
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool { return emailRx.MatchString(s) }
