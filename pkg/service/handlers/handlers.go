// Copyright 2025 The CityPages Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/citypages/citypages/pkg/log"
	"github.com/citypages/citypages/pkg/service/models"
	"github.com/citypages/citypages/pkg/service/models/validate"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var namer = schema.NamingStrategy{}

const (
	MessageOK           = "ok"
	MessageNotFound     = "not found"
	MessageForbidden    = "forbidden"
	MessageUnauthorized = "unauthorized"
)

func OK(c *gin.Context, data interface{}) {
	Response(c, http.StatusOK, data, nil)
}

func Created(c *gin.Context, data interface{}) {
	Response(c, http.StatusCreated, data, nil)
}

func NoContent(c *gin.Context, data interface{}) {
	Response(c, http.StatusNoContent, data, nil)
}

func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err)
}

func Forbidden(c *gin.Context, err error) {
	Error(c, http.StatusForbidden, err)
}

func Unauthorized(c *gin.Context, err error) {
	Error(c, http.StatusUnauthorized, err)
}

func Error(c *gin.Context, code int, err error) {
	Response(c, code, nil, err)
}

func Response(c *gin.Context, code int, data interface{}, err error) {
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		c.JSON(code, ResponseStruct{Message: err.Error(), ErrorData: err.Error()})
		return
	}
	if code == 0 {
		code = http.StatusOK
	}
	c.JSON(code, ResponseStruct{Message: MessageOK, Data: data})
}

// NotOK maps an error onto a response, keeping the remote message as-is.
func NotOK(c *gin.Context, err error) {
	log.Error(err, "not ok")
	defer func() {
		c.Errors = append(c.Errors, &gin.Error{Err: err, Type: gin.ErrorTypeAny})
	}()
	// validation error
	if errs, ok := err.(validator.ValidationErrors); ok {
		verrors := []string{}
		for _, e := range errs {
			verrors = append(verrors, e.Translate(validate.Get().Translator))
		}
		BadRequest(c, errors.New(strings.Join(verrors, ";")))
		return
	}
	// gorm error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusNotFound, errors.New("the object or the parent object is not found"))
		return
	}
	// mysql error
	me := &mysql.MySQLError{}
	if errors.As(err, &me) {
		BadRequest(c, models.FormatMysqlError(me))
		return
	}
	// default error
	BadRequest(c, err)
}

func contains(arr []string, s string) bool {
	for _, ar := range arr {
		if ar == s {
			return true
		}
	}
	return false
}

func tableName(model string) string {
	return namer.TableName(model)
}

func columnName(model, field string) string {
	return namer.ColumnName(tableName(model), field)
}

type URLQuery struct {
	Page    string `form:"page"`
	Size    string `form:"size"`
	Order   string `form:"order"`
	Search  string `form:"search"`
	Preload string `form:"preload"`

	preloads []string
	page     int64
	size     int64
	startPos int64
	endPos   int64
}

func NewURLQuery() *URLQuery {
	return &URLQuery{
		page:     1,
		size:     10,
		endPos:   10,
		Page:     "1",
		Size:     "10",
		preloads: []string{},
	}
}

func GetQuery(c *gin.Context) (*URLQuery, error) {
	q := NewURLQuery()
	if err := c.BindQuery(&q); err != nil {
		return nil, err
	}
	if err := q.convert(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *URLQuery) convert() error {
	var err error
	q.page, err = strconv.ParseInt(q.Page, 10, 64)
	if err != nil {
		return errors.New("invalid page number query parameter")
	}
	q.size, err = strconv.ParseInt(q.Size, 10, 64)
	if err != nil {
		return errors.New("invalid page size query parameter")
	}
	if q.page <= 0 {
		q.page = 1
	}
	if q.size <= 0 {
		q.size = 10
	}
	q.startPos = (q.page - 1) * q.size
	q.endPos = q.startPos + q.size
	preSeps := strings.Split(q.Preload, ",")
	var preloads []string
	for idx := range preSeps {
		if len(preSeps[idx]) > 0 {
			preloads = append(preloads, preSeps[idx])
		}
	}
	if len(preloads) > 0 {
		q.preloads = preloads
	}
	return nil
}

const (
	orderDESC = "DESC"
	orderASC  = "ASC"
)

type QArgs struct {
	Query interface{}
	Args  []interface{}
}

func Args(q interface{}, args ...interface{}) *QArgs {
	return &QArgs{
		Query: q,
		Args:  args,
	}
}

type PageQueryCond struct {
	Model         string
	SearchFields  []string
	SortFields    []string
	PreloadFields []string
	Select        *QArgs
	Join          *QArgs
	Where         []*QArgs
}

func (q *URLQuery) PageQuery(db *gorm.DB, cond *PageQueryCond) *gorm.DB {
	tmpdb := db.Offset(int(q.startPos)).Limit(int(q.size))
	if len(q.Search) > 0 {
		qs := []string{}
		for _, field := range cond.SearchFields {
			qs = append(qs, fmt.Sprintf("%s like ?", columnName(cond.Model, field)))
		}
		if len(qs) > 0 {
			tmpq := strings.Join(qs, " or ")
			tmpqs := make([]interface{}, len(qs))
			for idx := range tmpqs {
				tmpqs[idx] = fmt.Sprintf("%%%s%%", q.Search)
			}
			tmpdb = tmpdb.Where(tmpq, tmpqs...)
		}
	}
	if len(q.Order) > 0 {
		for _, field := range cond.SortFields {
			if strings.EqualFold(q.Order, field+orderDESC) {
				columnName := columnName(cond.Model, field)
				tmpdb = tmpdb.Order(fmt.Sprintf("%s DESC", columnName))
				break
			}
			if strings.EqualFold(q.Order, field) || strings.EqualFold(q.Order, field+orderASC) {
				columnName := columnName(cond.Model, field)
				tmpdb = tmpdb.Order(fmt.Sprintf("%s ASC", columnName))
				break
			}
		}
	}
	for _, preload := range q.preloads {
		if contains(cond.PreloadFields, preload) {
			tmpdb = tmpdb.Preload(preload)
		}
	}

	if cond.Join != nil {
		tmpdb = tmpdb.Joins(cond.Join.Query.(string), cond.Join.Args...)
	}

	if cond.Select != nil {
		tmpdb = tmpdb.Select(cond.Select.Query.(string), cond.Select.Args...)
	}

	for _, where := range cond.Where {
		tmpdb = tmpdb.Where(where.Query, where.Args...)
	}
	return tmpdb
}

func (q *URLQuery) Count(db *gorm.DB, cond *PageQueryCond) (total int64, err error) {
	table := tableName(cond.Model)
	countdb := db.Table(table)
	if len(q.Search) > 0 {
		qs := []string{}
		for _, field := range cond.SearchFields {
			qs = append(qs, fmt.Sprintf("%s like ?", columnName(cond.Model, field)))
		}
		if len(qs) > 0 {
			tmpq := strings.Join(qs, " or ")
			tmpqs := make([]interface{}, len(qs))
			for idx := range tmpqs {
				tmpqs[idx] = fmt.Sprintf("%%%s%%", q.Search)
			}
			countdb = countdb.Where(tmpq, tmpqs...)
		}
	}
	if cond.Join != nil {
		countdb = countdb.Joins(cond.Join.Query.(string), cond.Join.Args...)
	}
	for _, where := range cond.Where {
		countdb = countdb.Where(where.Query, where.Args...)
	}
	if err = countdb.Count(&total).Error; err != nil {
		return
	}
	return
}

func (q *URLQuery) PageList(db *gorm.DB, cond *PageQueryCond, dest interface{}) (total int64, page, size int64, err error) {
	originClause := make(map[string]clause.Clause)
	for k, v := range db.Statement.Clauses {
		originClause[k] = v
	}
	total, err = q.Count(db, cond)
	if err != nil {
		return
	}

	db.Statement.Clauses = originClause
	querydb := q.PageQuery(db, cond)
	if err = querydb.Find(dest).Error; err != nil {
		return
	}
	page = q.page
	size = q.size
	return
}

func (q *URLQuery) MustPreload(mustpreloads []string) *URLQuery {
	q.preloads = append(q.preloads, mustpreloads...)
	return q
}
