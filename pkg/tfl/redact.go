package tfl

import "regexp"

var credentialParamPattern = regexp.MustCompile(`(app_key=|app_id=)[^&\s]+`)
