package subscriber

import "github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
