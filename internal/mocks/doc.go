// Package mocks provides testify mocks of the ports interfaces.
//
// Each constructor registers AssertExpectations on test cleanup, so
// an expectation that is never met fails the test that set it.
package mocks
