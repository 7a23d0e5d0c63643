//go:build strata_atomiclevel_1

package strata

const atomicLevel = 1
