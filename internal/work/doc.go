// Package work fans independent per-symbol computations out over a
// bounded set of goroutines.
//
// Map blocks until every task has finished and returns results in input
// order, so callers can sort and rank sequentially afterwards. A panicking
// task is recovered and yields the zero value; it never takes down the
// batch. Tasks are not cancelled once started.
package work
