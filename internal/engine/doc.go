// Package engine turns a study plan into exam-intelligence metrics.
//
// Every function is a pure function of its arguments: "today" is always passed
// in explicitly, nothing is cached and nothing is logged. All scores are on a
// 0–100 scale and are clamped, so out-of-range inputs never produce NaN or
// values outside that range.
//
// Basic usage:
//
//	today := dates.Today(time.Now())
//	res, ok := engine.Analyze(plan, today, engine.Options{})
//	if !ok {
//	    // no exams: nothing to show
//	}
package engine
