// Package cpf formats and validates Brazilian individual taxpayer numbers (CPF).
//
// A CPF has eleven decimal digits; the last two are check digits computed
// with a weighted sum modulo 11. Every function in this package ignores any
// character that is not an ASCII digit, so "111.444.777-35" and
// "11144477735" are the same input.
//
// All functions are pure and safe for concurrent use.
package cpf
