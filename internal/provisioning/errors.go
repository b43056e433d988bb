package provisioning

import "errors"

// ErrExternalOperation marks failures of work delegated to systems
// outside this process: the appliance installer subprocess, reachability
// waits on freshly powered-on nodes, and long-running tasks joined on the
// management appliance. Callers classify with errors.Is; the wrapped
// error carries the failing node or task.
var ErrExternalOperation = errors.New("external operation failed")
