package reconcile_claims

import "errors"

// ErrInternal возвращается, если не удалось прочитать леджер или записи
var ErrInternal = errors.New("reconcile_claims: internal error")
