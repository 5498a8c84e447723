package comment

import "github.com/m04kA/SMC-ShareItService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
