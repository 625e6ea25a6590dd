package builtin

import "time"

// timeNowUnix and sleepSeconds back the time()/sleep(s) built-ins
// (spec.md §5 "sleep(s) suspends the process", §9 "determinism... except
// for time(), sleep()"). No third-party time/clock library appears
// anywhere in the retrieved pack, so these are the one place built
// directly on the standard library.
func timeNowUnix() int64 {
	return time.Now().Unix()
}

func sleepSeconds(s float64) {
	time.Sleep(time.Duration(s * float64(time.Second)))
}
