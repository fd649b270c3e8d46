package lottery

import "github.com/m04kA/SMC-SlotLottery/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
