package error

import "net/http"

type BadRequestError string

func (err BadRequestError) Error() string {
	return string(err)
}

func (err BadRequestError) ErrCode() string {
	return "BAD_REQUEST"
}

func (err BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}
