//go:build strata_atomiclevel_2

package strata

const atomicLevel = 2
