package utils

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
)

var mutex sync.Mutex

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

// GetSequence hands out the next document sequence number for T.
// Redis INCR keeps concurrent requests from computing the same number;
// when the counter is cold it is seeded from the max sequence_no in the db,
// and the result is re-checked against the db before it is handed out.
func GetSequence[T any](ctx context.Context) (int64, error) {
	var model T
	mutex.Lock()
	defer mutex.Unlock()
	cacheKey := strings.ToLower(GetTypeName[T]()) + "_seq"
	var seqNo int64
	var err error
	db := config.GetDB()

	for {
		seqNo, err = config.GetRedisCounter(ctx, cacheKey)
		if err != nil {
			return 0, err
		}
		// if not found in redis, get from db
		if seqNo <= 1 {
			// get max seq no from db
			var dbSeq *int64
			if err := db.WithContext(ctx).Model(&model).Select("max(sequence_no)").
				Scan(&dbSeq).Error; err != nil {
				return 0, err
			}
			// in case db has no records yet
			if dbSeq == nil {
				seqNo = 0
			} else {
				seqNo = *dbSeq
			}
			seqNo++
			if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
				return 0, err
			}
		}
		// check if sequence number exists in db
		err = ValidateUnique[T](ctx, "sequence_no", seqNo, 0)
		if err == nil {
			break
		}
	}
	return seqNo, nil
}
