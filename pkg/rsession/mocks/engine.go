package mocks

import (
	"github.com/jmaanova/jmaanova/pkg/rsession"
	"github.com/stretchr/testify/mock"
)

// Engine mock
type Engine struct {
	mock.Mock
}

// Eval provides a mock function with given fields: statement
func (_m *Engine) Eval(statement string) (*rsession.Value, error) {
	ret := _m.Called(statement)

	var r0 *rsession.Value
	if rf, ok := ret.Get(0).(func(string) *rsession.Value); ok {
		r0 = rf(statement)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*rsession.Value)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(statement)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// VoidEval provides a mock function with given fields: statement
func (_m *Engine) VoidEval(statement string) error {
	ret := _m.Called(statement)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(statement)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
