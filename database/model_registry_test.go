/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelRegistry_OrdersByPriority(t *testing.T) {
	type parent struct{}
	type child struct{}
	type other struct{}

	r := newModelRegistry()
	r.Register(NewModelAdapter((*child)(nil), 20))
	r.Register(NewModelAdapter((*parent)(nil), 10))
	r.Register(NewModelAdapter((*other)(nil), 20))

	models := r.Models()
	if assert.Len(t, models, 3) {
		assert.IsType(t, (*parent)(nil), models[0].Instance())
		assert.IsType(t, (*child)(nil), models[1].Instance())
		assert.IsType(t, (*other)(nil), models[2].Instance())
	}
}
