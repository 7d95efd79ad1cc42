package gsystem

import "github.com/gemc-project/gemc-core/internal/glog"

func testLogger() *glog.Logger {
	return glog.New("gsystem", glog.Trace, nil)
}
